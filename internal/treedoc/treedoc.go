// Package treedoc reads and writes the nested hierarchy document.
//
// A document is a YAML mapping with exactly one key, the root element. The
// value of an element is a mapping in which scalar values are attributes and
// mapping (or empty) values are child elements:
//
//	BAL SHT:
//	  type: Asset
//	  ASSETS:
//	    shortdesc: Assets
//	    "0100": {}
//
// Document order of attributes and children is preserved.
package treedoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type Attr struct {
	Key   string
	Value string
}

type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	// Line is the source line of the element, zero for built trees.
	Line int
}

func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr replaces the value of key or appends it.
func (e *Element) SetAttr(key, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Key == key {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
}

func (e *Element) AddChild(name string) *Element {
	c := &Element{Name: name}
	e.Children = append(e.Children, c)
	return c
}

// Walk visits e and its descendants in pre-order.
func (e *Element) Walk(fn func(el, parent *Element)) {
	var walk func(el, parent *Element)
	walk = func(el, parent *Element) {
		fn(el, parent)
		for _, c := range el.Children {
			walk(c, el)
		}
	}
	walk(e, nil)
}

type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func Parse(r io.Reader) (*Element, error) {
	dec := yaml.NewDecoder(r)
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Msg: "document is empty"}
		}
		return nil, &ParseError{Msg: err.Error()}
	}
	var extra yaml.Node
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, &ParseError{Msg: err.Error()}
	default:
		return nil, &ParseError{Line: extra.Line, Msg: "document contains more than one YAML document"}
	}

	top := &doc
	if top.Kind == yaml.DocumentNode && len(top.Content) > 0 {
		top = top.Content[0]
	}
	if top.Kind != yaml.MappingNode || len(top.Content) != 2 {
		return nil, &ParseError{Line: top.Line, Msg: "document must contain exactly one top-level element"}
	}
	return element(top.Content[0], top.Content[1])
}

func element(key, value *yaml.Node) (*Element, error) {
	if key.Kind != yaml.ScalarNode || key.Value == "" {
		return nil, &ParseError{Line: key.Line, Msg: "element name must be a non-empty scalar"}
	}
	el := &Element{Name: key.Value, Line: key.Line}
	if isNull(value) {
		return el, nil
	}
	if value.Kind != yaml.MappingNode {
		return nil, &ParseError{Line: value.Line, Msg: fmt.Sprintf("element %q must be a mapping", key.Value)}
	}

	seen := map[string]bool{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		switch {
		case v.Kind == yaml.MappingNode || isNull(v):
			c, err := element(k, v)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, c)
		case v.Kind == yaml.ScalarNode:
			if k.Kind != yaml.ScalarNode || k.Value == "" {
				return nil, &ParseError{Line: k.Line, Msg: "attribute name must be a non-empty scalar"}
			}
			if seen[k.Value] {
				return nil, &ParseError{Line: k.Line, Msg: fmt.Sprintf("attribute %q repeated on element %q", k.Value, el.Name)}
			}
			seen[k.Value] = true
			el.Attrs = append(el.Attrs, Attr{Key: k.Value, Value: v.Value})
		default:
			return nil, &ParseError{Line: v.Line, Msg: fmt.Sprintf("unsupported value for %q: sequences and aliases are not allowed", k.Value)}
		}
	}
	return el, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func Write(w io.Writer, root *Element) error {
	doc := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{scalar(root.Name, "!!str"), node(root)},
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func Marshal(root *Element) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func node(el *Element) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range el.Attrs {
		tag := "!!str"
		if a.Value == "true" || a.Value == "false" {
			tag = "!!bool"
		}
		n.Content = append(n.Content, scalar(a.Key, "!!str"), scalar(a.Value, tag))
	}
	for _, c := range el.Children {
		n.Content = append(n.Content, scalar(c.Name, "!!str"), node(c))
	}
	if len(n.Content) == 0 {
		n.Style = yaml.FlowStyle
	}
	return n
}

// scalar builds a node whose tag makes the encoder quote values that would
// otherwise read back as null or a number.
func scalar(value, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
