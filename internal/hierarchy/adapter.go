package hierarchy

import (
	"gl-setup/internal/store"
	"gl-setup/internal/treedoc"
	"gl-setup/internal/verification"
)

// adapter binds the engine to the tables of one node kind.
type adapter interface {
	// label names the kind in messages, e.g. "Account".
	label() string
	// resolve reads the attributes of a document element, applying
	// inheritance from parent (nil for the root).
	resolve(el *treedoc.Element, parent *Node, vr *verification.Results) Node
	attributes(n *Node) []treedoc.Attr

	load(tx *store.Tx, ledger int, hierarchy string) (*snapshot, error)
	// prepare removes the hierarchy's edges and records its root.
	prepare(tx *store.Tx, ledger int, hierarchy string, snap *snapshot, root string) error
	// save upserts n and its edge. prev is the stored node, nil when new.
	save(tx *store.Tx, ledger int, hierarchy string, n *Node, prev *Node) error
	// stale lists the stored codes an import of hierarchy may delete,
	// children before parents.
	stale(tx *store.Tx, ledger int, hierarchy string, snap *snapshot, doc *tree) ([]string, error)
	children(tx *store.Tx, ledger int, code string) (int64, error)
	// guard reports why code cannot be deleted.
	guard(tx *store.Tx, ledger int, n *Node, vr *verification.Results) error
	remove(tx *store.Tx, ledger int, code string) error
	invalidates() []string
}

type reference struct {
	model  any
	column string
	what   string
	// shared tables have no ledger number and block the code in every ledger
	shared bool
}

// guardReferences adds a critical result for every reference table that
// still points at code.
func guardReferences(tx *store.Tx, ledger int, ctx, code string, refs []reference, vr *verification.Results) error {
	for _, ref := range refs {
		conds := map[string]any{ref.column: code}
		if !ref.shared {
			conds["ledger_number"] = ledger
		}
		n, err := tx.Count(ref.model, conds)
		if err != nil {
			return err
		}
		if n > 0 {
			vr.Critical(verification.CodeReferentialIntegrity, ctx, "cannot be deleted, it has been used in "+ref.what)
		}
	}
	return nil
}
