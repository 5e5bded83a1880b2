// Package rename changes the code of an account or cost centre everywhere it
// is stored.
package rename

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gl-setup/internal/apperrors"
	"gl-setup/internal/store"
	"gl-setup/internal/verification"
	"gl-setup/models"
)

var errAbort = errors.New("rename aborted")

type Engine struct {
	db  *store.DB
	log *zap.Logger
}

func NewEngine(db *store.DB, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, log: log.Named("rename")}
}

type Result struct {
	Renamed      bool                 `json:"renamed"`
	Verification verification.Results `json:"verification"`
	// RowsUpdated counts the rewritten rows per table.column.
	RowsUpdated map[string]int64 `json:"rowsUpdated,omitempty"`
	Invalidated []string         `json:"invalidated,omitempty"`
}

func label(kind models.NodeKind) string {
	if kind == models.KindCostCentre {
		return "Cost centre"
	}
	return "Account"
}

func invalidates(kind models.NodeKind) []string {
	if kind == models.KindCostCentre {
		return []string{"CostCentreList"}
	}
	return []string{"AccountList", "AccountHierarchyList", "AnalysisAttributeList"}
}

func nodeKey(kind models.NodeKind, ledger int, code string) map[string]any {
	if kind == models.KindCostCentre {
		return map[string]any{"ledger_number": ledger, "cost_centre_code": code}
	}
	return map[string]any{"ledger_number": ledger, "account_code": code}
}

// loadNode returns the node row and whether it was generated by the system.
func loadNode(tx *store.Tx, kind models.NodeKind, ledger int, code string) (any, bool, error) {
	if kind == models.KindCostCentre {
		var cc models.CostCentre
		if err := tx.LoadByKey(&cc, nodeKey(kind, ledger, code)); err != nil {
			return nil, false, err
		}
		return &cc, cc.SystemCostCentreFlag, nil
	}
	var a models.Account
	if err := tx.LoadByKey(&a, nodeKey(kind, ledger, code)); err != nil {
		return nil, false, err
	}
	return &a, a.SystemAccountFlag, nil
}

func cloneNode(tx *store.Tx, row any, code string) error {
	switch r := row.(type) {
	case *models.Account:
		c := *r
		c.AccountCode, c.ModificationID = code, store.NewModificationID()
		return tx.Insert(&c)
	case *models.CostCentre:
		c := *r
		c.CostCentreCode, c.ModificationID = code, store.NewModificationID()
		return tx.Insert(&c)
	}
	return fmt.Errorf("cannot clone %T", row)
}

func nodeModel(kind models.NodeKind) any {
	if kind == models.KindCostCentre {
		return &models.CostCentre{}
	}
	return &models.Account{}
}

// RenameCode renames oldCode to newCode in one transaction. Problems the
// user can fix are returned as critical verification results.
func (e *Engine) RenameCode(ctx context.Context, ledger int, kind models.NodeKind, oldCode, newCode string) (*Result, error) {
	if ledger <= 0 {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("invalid ledger number %d", ledger), nil)
	}
	if kind != models.KindAccount && kind != models.KindCostCentre {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unknown node kind %q", kind), nil)
	}
	oldCode, newCode = strings.TrimSpace(oldCode), strings.TrimSpace(newCode)
	if oldCode == "" || newCode == "" {
		return nil, apperrors.NewInvalidInputError("old and new code are required", nil)
	}
	log := e.log.With(zap.Int("ledger", ledger), zap.String("kind", string(kind)),
		zap.String("old", oldCode), zap.String("new", newCode))

	res := &Result{}
	err := e.db.WithTx(ctx, func(tx *store.Tx) error {
		res.RowsUpdated = map[string]int64{}
		return e.rename(tx, ledger, kind, oldCode, newCode, res)
	})
	switch {
	case err == nil:
	case errors.Is(err, errAbort):
		res.RowsUpdated = nil
		log.Warn("rename rejected", zap.Error(res.Verification.Err()))
		return res, nil
	case store.IsRetryable(err):
		res.RowsUpdated = nil
		log.Warn("rename hit a concurrent change", zap.Error(err))
		res.Verification.AddResult(store.RetryResult("Rename", err))
		return res, nil
	default:
		log.Error("rename failed", zap.Error(err))
		return nil, err
	}

	res.Renamed = true
	res.Invalidated = invalidates(kind)
	var total int64
	for _, n := range res.RowsUpdated {
		total += n
	}
	log.Info("code renamed", zap.Int64("rows", total))
	return res, nil
}

func (e *Engine) rename(tx *store.Tx, ledger int, kind models.NodeKind, oldCode, newCode string, res *Result) error {
	ctx := label(kind) + " " + oldCode
	if oldCode == newCode {
		res.Verification.Critical(verification.CodeTargetAlreadyExists, ctx, "the new code is the same as the old code")
		return errAbort
	}

	row, system, err := loadNode(tx, kind, ledger, oldCode)
	if errors.Is(err, store.ErrNotFound) {
		res.Verification.Critical(verification.CodeSourceNotFound, ctx, fmt.Sprintf("does not exist in ledger %d", ledger))
		return errAbort
	}
	if err != nil {
		return err
	}
	if kind == models.KindCostCentre && system {
		res.Verification.Critical(verification.CodeForbiddenRename, ctx, "is a system cost centre and cannot be renamed")
		return errAbort
	}
	n, err := tx.Count(nodeModel(kind), nodeKey(kind, ledger, newCode))
	if err != nil {
		return err
	}
	if n > 0 {
		res.Verification.Critical(verification.CodeTargetAlreadyExists, label(kind)+" "+newCode, "already exists")
		return errAbort
	}

	if err := cloneNode(tx, row, newCode); err != nil {
		return err
	}

	targets := Catalog(kind)
	scope := func(t Target) map[string]any {
		if t.LedgerScoped {
			return map[string]any{"ledger_number": ledger}
		}
		return nil
	}
	for _, t := range targets {
		if !t.Clone {
			continue
		}
		n, err := tx.CloneRows(t.Table, t.Column, oldCode, newCode, scope(t))
		if err != nil {
			return err
		}
		res.RowsUpdated[t.String()] += n
	}
	for _, t := range targets {
		if t.Clone {
			continue
		}
		n, err := tx.UpdateColumn(t.Table, t.Column, oldCode, newCode, scope(t))
		if err != nil {
			return err
		}
		res.RowsUpdated[t.String()] += n
	}
	for i := len(targets) - 1; i >= 0; i-- {
		t := targets[i]
		if !t.Clone {
			continue
		}
		if _, err := tx.DeleteRows(t.Table, t.Column, oldCode, scope(t)); err != nil {
			return err
		}
	}

	_, err = tx.Delete(nodeModel(kind), nodeKey(kind, ledger, oldCode))
	return err
}
