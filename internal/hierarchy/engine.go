// Package hierarchy converts account and cost centre hierarchies between
// their stored parent-pointer form and the nested tree document.
package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"gl-setup/internal/apperrors"
	"gl-setup/internal/store"
	"gl-setup/internal/treedoc"
	"gl-setup/internal/verification"
	"gl-setup/models"
)

// errAbort rolls back an import that produced critical results.
var errAbort = errors.New("import aborted")

type Engine struct {
	db  *store.DB
	log *zap.Logger
}

func NewEngine(db *store.DB, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, log: log.Named("hierarchy")}
}

type ImportResult struct {
	Committed    bool                 `json:"committed"`
	Verification verification.Results `json:"verification"`
	Created      int                  `json:"created"`
	Updated      int                  `json:"updated"`
	Deleted      int                  `json:"deleted"`
	// Invalidated names the cached lists the import made stale.
	Invalidated []string `json:"invalidated,omitempty"`
}

func adapterFor(kind models.NodeKind) (adapter, error) {
	switch kind {
	case models.KindAccount:
		return accountAdapter{}, nil
	case models.KindCostCentre:
		return costCentreAdapter{}, nil
	}
	return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unknown node kind %q", kind), nil)
}

func checkLedger(ledger int) error {
	if ledger <= 0 {
		return apperrors.NewInvalidInputError(fmt.Sprintf("invalid ledger number %d", ledger), nil)
	}
	return nil
}

func requireLedger(tx *store.Tx, ledger int) error {
	var l models.Ledger
	err := tx.LoadByKey(&l, map[string]any{"ledger_number": ledger})
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewNotFoundError(fmt.Sprintf("ledger %d not found", ledger)).WithDetail("ledger", ledger)
	}
	return err
}

// Export returns the stored hierarchy as a tree document.
func (e *Engine) Export(ctx context.Context, ledger int, kind models.NodeKind, hierarchy string) (*treedoc.Element, error) {
	a, err := adapterFor(kind)
	if err != nil {
		return nil, err
	}
	if err := checkLedger(ledger); err != nil {
		return nil, err
	}
	if kind == models.KindAccount && hierarchy == "" {
		return nil, apperrors.NewInvalidInputError("hierarchy name is required", nil)
	}

	var root *treedoc.Element
	err = e.db.WithTx(ctx, func(tx *store.Tx) error {
		if err := requireLedger(tx, ledger); err != nil {
			return err
		}
		snap, err := a.load(tx, ledger, hierarchy)
		if err != nil {
			return err
		}
		if !snap.exists {
			if kind == models.KindAccount {
				return apperrors.NewNotFoundError(fmt.Sprintf("account hierarchy %s not found in ledger %d", hierarchy, ledger)).
					WithDetail("ledger", ledger).WithDetail("hierarchy", hierarchy)
			}
			return apperrors.NewNotFoundError(fmt.Sprintf("ledger %d has no root cost centre", ledger)).WithDetail("ledger", ledger)
		}
		t, err := storedTree(snap, a.label())
		if err != nil {
			return apperrors.NewInternalError("inconsistent hierarchy", err)
		}
		root = t.element(a, 0, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

// documentTree resolves the document into an arena, inheriting attributes
// from parents. Repeated codes are reported and skipped.
func documentTree(root *treedoc.Element, a adapter, vr *verification.Results) *tree {
	t := newTree()
	// a duplicate is left out together with its subtree
	added := map[*treedoc.Element]int{}
	root.Walk(func(el, parentEl *treedoc.Element) {
		parent := -1
		var p *Node
		if parentEl != nil {
			i, ok := added[parentEl]
			if !ok {
				return
			}
			parent = i
			pn := t.nodes[i].Node
			p = &pn
		}
		n := a.resolve(el, p, vr)
		i, ok := t.add(n, parent, el.Line)
		if !ok {
			vr.Critical(verification.CodeDuplicateCode, a.label()+" "+el.Name,
				fmt.Sprintf("appears more than once in the document (line %d)", el.Line))
			return
		}
		added[el] = i
	})
	for i := range t.nodes {
		t.nodes[i].Posting = len(t.nodes[i].children) == 0
	}
	return t
}

// Import replaces the stored hierarchy with the one described by doc. Nodes
// missing from the document are deleted unless something still refers to
// them, in which case nothing is committed.
func (e *Engine) Import(ctx context.Context, ledger int, kind models.NodeKind, hierarchy string, doc io.Reader) (*ImportResult, error) {
	a, err := adapterFor(kind)
	if err != nil {
		return nil, err
	}
	if err := checkLedger(ledger); err != nil {
		return nil, err
	}
	if hierarchy == "" {
		return nil, apperrors.NewInvalidInputError("hierarchy name is required", nil)
	}
	if doc == nil {
		return nil, apperrors.NewInvalidInputError("document is required", nil)
	}
	log := e.log.With(zap.Int("ledger", ledger), zap.String("kind", string(kind)), zap.String("hierarchy", hierarchy))

	if err := e.db.WithTx(ctx, func(tx *store.Tx) error { return requireLedger(tx, ledger) }); err != nil {
		return nil, err
	}

	res := &ImportResult{}
	parsed, err := treedoc.Parse(doc)
	if err != nil {
		var pe *treedoc.ParseError
		if !errors.As(err, &pe) {
			return nil, err
		}
		res.Verification.Critical(verification.CodeParseError, "Import", pe.Error())
		log.Warn("import rejected", zap.Error(err))
		return res, nil
	}

	t := documentTree(parsed, a, &res.Verification)
	if res.Verification.HasCriticalErrors() {
		log.Warn("import rejected", zap.Error(res.Verification.Err()))
		return res, nil
	}

	err = e.db.WithTx(ctx, func(tx *store.Tx) error {
		res.Created, res.Updated, res.Deleted = 0, 0, 0
		return e.apply(tx, a, ledger, hierarchy, t, res)
	})
	switch {
	case err == nil:
	case errors.Is(err, errAbort):
		log.Warn("import rolled back", zap.Error(res.Verification.Err()))
		return res, nil
	case store.IsRetryable(err):
		log.Warn("import hit a concurrent change", zap.Error(err))
		res.Verification.AddResult(store.RetryResult("Import", err))
		return res, nil
	default:
		log.Error("import failed", zap.Error(err))
		return nil, err
	}

	res.Committed = true
	res.Invalidated = a.invalidates()
	log.Info("hierarchy imported",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("deleted", res.Deleted))
	return res, nil
}

func (e *Engine) apply(tx *store.Tx, a adapter, ledger int, hierarchy string, t *tree, res *ImportResult) error {
	snap, err := a.load(tx, ledger, hierarchy)
	if err != nil {
		return err
	}
	root := t.nodes[0].Code
	if snap.exists && snap.root != root {
		res.Verification.Critical(verification.CodeDuplicateRoot, a.label()+" "+root,
			fmt.Sprintf("the document root does not match the configured root %s", snap.root))
		return errAbort
	}
	if err := a.prepare(tx, ledger, hierarchy, snap, root); err != nil {
		return err
	}

	err = t.preorder(func(i int) error {
		n := t.nodes[i].Node
		prev := snap.nodes[n.Code]
		if prev != nil {
			// a summary node never becomes posting again
			n.Posting = n.Posting && prev.Posting
			res.Updated++
		} else {
			res.Created++
		}
		return a.save(tx, ledger, hierarchy, &n, prev)
	})
	if err != nil {
		return err
	}

	stale, err := a.stale(tx, ledger, hierarchy, snap, t)
	if err != nil {
		return err
	}
	for _, code := range stale {
		if err := a.guard(tx, ledger, snap.nodes[code], &res.Verification); err != nil {
			return err
		}
	}
	if res.Verification.HasCriticalErrors() {
		return errAbort
	}
	for _, code := range stale {
		if err := a.remove(tx, ledger, code); err != nil {
			return err
		}
		res.Deleted++
	}
	return nil
}

// CheckDeletable reports why the node code could not be deleted. An empty
// result means it could.
func (e *Engine) CheckDeletable(ctx context.Context, ledger int, kind models.NodeKind, code string) (verification.Results, error) {
	a, err := adapterFor(kind)
	if err != nil {
		return nil, err
	}
	if err := checkLedger(ledger); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, apperrors.NewInvalidInputError("code is required", nil)
	}

	var vr verification.Results
	err = e.db.WithTx(ctx, func(tx *store.Tx) error {
		snap, err := a.load(tx, ledger, "")
		if err != nil {
			return err
		}
		n, ok := snap.nodes[code]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found in ledger %d", a.label(), code, ledger)).
				WithDetail("ledger", ledger).WithDetail("code", code)
		}
		children, err := a.children(tx, ledger, code)
		if err != nil {
			return err
		}
		if children > 0 {
			vr.Critical(verification.CodeHasChildren, a.label()+" "+code,
				fmt.Sprintf("cannot be deleted, it has %d child nodes", children))
		}
		return a.guard(tx, ledger, n, &vr)
	})
	if err != nil {
		return nil, err
	}
	return vr, nil
}
