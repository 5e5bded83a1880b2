package hierarchy

import (
	"fmt"
	"sort"
	"strings"

	"gl-setup/internal/treedoc"
)

// Node is one account or cost centre in kind-neutral form. Attrs holds the
// canonical document attribute values.
type Node struct {
	Code           string
	Parent         string
	Order          int
	Posting        bool
	System         bool
	Attrs          map[string]string
	ModificationID string
}

type edge struct {
	child, parent string
	order         int
}

// snapshot is the stored state of one hierarchy inside a transaction.
type snapshot struct {
	// root is the configured root code, empty for a hierarchy that does not
	// exist yet.
	root   string
	exists bool
	nodes  map[string]*Node
	edges  []edge
}

type treeNode struct {
	Node
	parent   int
	children []int
	line     int
}

// tree is an arena: nodes refer to each other by index.
type tree struct {
	nodes []treeNode
	index map[string]int
}

func newTree() *tree {
	return &tree{index: map[string]int{}}
}

// add appends n below parent (-1 for the root). It reports false if the code
// is already in the tree.
func (t *tree) add(n Node, parent, line int) (int, bool) {
	if _, dup := t.index[n.Code]; dup {
		return -1, false
	}
	i := len(t.nodes)
	if parent >= 0 {
		n.Parent = t.nodes[parent].Code
		n.Order = len(t.nodes[parent].children)
		t.nodes[parent].children = append(t.nodes[parent].children, i)
	}
	t.nodes = append(t.nodes, treeNode{Node: n, parent: parent, line: line})
	t.index[n.Code] = i
	return i, true
}

func (t *tree) has(code string) bool {
	_, ok := t.index[code]
	return ok
}

// preorder calls fn for every node, parents before children.
func (t *tree) preorder(fn func(i int) error) error {
	if len(t.nodes) == 0 {
		return nil
	}
	stack := []int{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := fn(i); err != nil {
			return err
		}
		ch := t.nodes[i].children
		for j := len(ch) - 1; j >= 0; j-- {
			stack = append(stack, ch[j])
		}
	}
	return nil
}

// storedTree builds the tree reachable from the snapshot's root. A node
// reached twice means the stored edges contain a cycle or a node with two
// parents.
func storedTree(snap *snapshot, label string) (*tree, error) {
	root, ok := snap.nodes[snap.root]
	if !ok {
		return nil, fmt.Errorf("root %s %s does not exist", label, snap.root)
	}
	children := map[string][]edge{}
	for _, e := range snap.edges {
		children[e.parent] = append(children[e.parent], e)
	}
	for _, es := range children {
		sort.Slice(es, func(i, j int) bool {
			if es[i].order != es[j].order {
				return es[i].order < es[j].order
			}
			return es[i].child < es[j].child
		})
	}

	t := newTree()
	var build func(n *Node, parent int) error
	build = func(n *Node, parent int) error {
		i, ok := t.add(*n, parent, 0)
		if !ok {
			return fmt.Errorf("%s %s is reached more than once from root %s, the stored hierarchy contains a cycle", label, n.Code, snap.root)
		}
		for _, e := range children[n.Code] {
			c, ok := snap.nodes[e.child]
			if !ok {
				return fmt.Errorf("%s %s reports to %s but does not exist", label, e.child, e.parent)
			}
			if err := build(c, i); err != nil {
				return err
			}
		}
		return nil
	}
	if err := build(root, -1); err != nil {
		return nil, err
	}
	var detached []string
	for _, e := range snap.edges {
		if !t.has(e.child) {
			detached = append(detached, e.child+" (reports to "+e.parent+")")
		}
	}
	if len(detached) > 0 {
		sort.Strings(detached)
		return nil, fmt.Errorf("%s %s cannot be reached from root %s", label, strings.Join(detached, ", "), snap.root)
	}
	return t, nil
}

// element appends node i and its subtree to parent, or returns it as a new
// root when parent is nil.
func (t *tree) element(a adapter, i int, parent *treedoc.Element) *treedoc.Element {
	n := &t.nodes[i]
	var el *treedoc.Element
	if parent == nil {
		el = &treedoc.Element{Name: n.Code}
	} else {
		el = parent.AddChild(n.Code)
	}
	for _, attr := range a.attributes(&n.Node) {
		el.SetAttr(attr.Key, attr.Value)
	}
	for _, c := range n.children {
		t.element(a, c, el)
	}
	return el
}
