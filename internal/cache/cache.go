// Package cache carries the invalidation signal of committed hierarchy
// changes to whatever caches the deployment runs.
package cache

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"gl-setup/models"
)

// Invalidator is told which cached lists of a ledger a committed change made
// stale, e.g. "AccountList" or "CostCentreList".
type Invalidator interface {
	Invalidate(ctx context.Context, ledger int, names []string) error
}

// DocumentCache stores exported hierarchy documents.
type DocumentCache interface {
	GetDocument(ctx context.Context, ledger int, kind models.NodeKind, hierarchy string) ([]byte, bool, error)
	PutDocument(ctx context.Context, ledger int, kind models.NodeKind, hierarchy string, doc []byte) error
}

type Nop struct{}

func (Nop) Invalidate(context.Context, int, []string) error { return nil }

func (Nop) GetDocument(context.Context, int, models.NodeKind, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Nop) PutDocument(context.Context, int, models.NodeKind, string, []byte) error { return nil }

// Multi fans an invalidation out to several invalidators.
type Multi []Invalidator

func (m Multi) Invalidate(ctx context.Context, ledger int, names []string) error {
	var err error
	for _, inv := range m {
		err = multierr.Append(err, inv.Invalidate(ctx, ledger, names))
	}
	return err
}

// Notify invalidates names and only logs failures; a stale cache must not
// fail a change that has already been committed.
func Notify(ctx context.Context, inv Invalidator, log *zap.Logger, ledger int, names []string) {
	if inv == nil || len(names) == 0 {
		return
	}
	if err := inv.Invalidate(ctx, ledger, names); err != nil {
		log.Warn("cache invalidation failed", zap.Int("ledger", ledger), zap.Strings("names", names), zap.Error(err))
	}
}

// kindsOf maps invalidated list names to the document kinds built from them.
func kindsOf(names []string) []models.NodeKind {
	var account, costCentre bool
	for _, n := range names {
		switch n {
		case "AccountList", "AccountHierarchyList":
			account = true
		case "CostCentreList":
			costCentre = true
		}
	}
	var kinds []models.NodeKind
	if account {
		kinds = append(kinds, models.KindAccount)
	}
	if costCentre {
		kinds = append(kinds, models.KindCostCentre)
	}
	return kinds
}
