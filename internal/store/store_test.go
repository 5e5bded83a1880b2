package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gl-setup/internal/dbtest"
	"gl-setup/internal/store"
	"gl-setup/internal/verification"
	"gl-setup/models"
)

func account(ledger int, code string) *models.Account {
	return &models.Account{
		LedgerNumber:         ledger,
		AccountCode:          code,
		AccountType:          models.AccountTypeExpense,
		DebitCreditIndicator: true,
		AccountActiveFlag:    true,
		PostingStatus:        true,
		ValidCCCombo:         models.ValidCCAll,
		ModificationID:       store.NewModificationID(),
	}
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	ctx := context.Background()
	s, db := dbtest.NewStore(t)

	err := s.WithTx(ctx, func(tx *store.Tx) error {
		return tx.Insert(account(43, "5000"))
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.Insert(account(43, "5001")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, db.Model(&models.Account{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestLoadByKey(t *testing.T) {
	ctx := context.Background()
	s, db := dbtest.NewStore(t)
	dbtest.Create(t, db, account(43, "5000"))

	_ = s.WithTx(ctx, func(tx *store.Tx) error {
		var a models.Account
		require.NoError(t, tx.LoadByKey(&a, map[string]any{"ledger_number": 43, "account_code": "5000"}))
		assert.Equal(t, models.AccountTypeExpense, a.AccountType)

		err := tx.LoadByKey(&a, map[string]any{"ledger_number": 43, "account_code": "9999"})
		assert.ErrorIs(t, err, store.ErrNotFound)
		return nil
	})
}

func TestLoadByForeignKeyAndTemplate(t *testing.T) {
	ctx := context.Background()
	s, db := dbtest.NewStore(t)
	dbtest.Create(t, db,
		&models.AccountHierarchyDetail{LedgerNumber: 43, AccountHierarchyCode: "STANDARD", ReportingAccountCode: "5100", AccountCodeToReportTo: "5000", ReportOrder: 1},
		&models.AccountHierarchyDetail{LedgerNumber: 43, AccountHierarchyCode: "STANDARD", ReportingAccountCode: "5200", AccountCodeToReportTo: "5000", ReportOrder: 0},
		&models.AccountHierarchyDetail{LedgerNumber: 44, AccountHierarchyCode: "STANDARD", ReportingAccountCode: "5300", AccountCodeToReportTo: "5000", ReportOrder: 0},
	)

	_ = s.WithTx(ctx, func(tx *store.Tx) error {
		var edges []models.AccountHierarchyDetail
		require.NoError(t, tx.LoadByForeignKey(&edges, "account_code_to_report_to", "5000", map[string]any{"ledger_number": 43}))
		assert.Len(t, edges, 2)

		edges = nil
		require.NoError(t, tx.LoadUsingTemplate(&edges, &models.AccountHierarchyDetail{LedgerNumber: 43}, "report_order"))
		require.Len(t, edges, 2)
		assert.Equal(t, "5200", edges[0].ReportingAccountCode)
		return nil
	})
}

func TestUpdateVersioned(t *testing.T) {
	ctx := context.Background()
	s, db := dbtest.NewStore(t)
	a := account(43, "5000")
	dbtest.Create(t, db, a)
	key := map[string]any{"ledger_number": 43, "account_code": "5000"}

	var next string
	err := s.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		next, err = tx.UpdateVersioned(&models.Account{}, key, a.ModificationID, map[string]any{"short_desc": "Expenses", "posting_status": false})
		return err
	})
	require.NoError(t, err)
	assert.NotEqual(t, a.ModificationID, next)

	var got models.Account
	require.NoError(t, db.Where(key).Take(&got).Error)
	assert.Equal(t, "Expenses", got.ShortDesc)
	assert.False(t, got.PostingStatus)
	assert.Equal(t, next, got.ModificationID)

	// the old token is stale now
	err = s.WithTx(ctx, func(tx *store.Tx) error {
		_, err := tx.UpdateVersioned(&models.Account{}, key, a.ModificationID, map[string]any{"short_desc": "lost"})
		return err
	})
	assert.ErrorIs(t, err, store.ErrConcurrentModification)
	assert.True(t, store.IsRetryable(err))
}

func TestDeleteAndCount(t *testing.T) {
	ctx := context.Background()
	s, db := dbtest.NewStore(t)
	dbtest.Create(t, db, account(43, "5000"), account(43, "5001"), account(44, "5000"))

	_ = s.WithTx(ctx, func(tx *store.Tx) error {
		n, err := tx.Count(&models.Account{}, map[string]any{"ledger_number": 43})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = tx.Delete(&models.Account{}, map[string]any{"ledger_number": 43, "account_code": "5000"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = tx.Delete(&models.Account{}, nil)
		assert.Error(t, err)

		n, err = tx.Count(&models.Account{}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		return nil
	})
}

func TestUpdateColumnScopesToLedger(t *testing.T) {
	ctx := context.Background()
	s, db := dbtest.NewStore(t)
	for i, ledger := range []int{43, 43, 44} {
		dbtest.Create(t, db, &models.GeneralLedgerMaster{
			LedgerNumber:   ledger,
			Year:           2026,
			AccountCode:    "5003",
			CostCentreCode: fmt.Sprintf("43%02d", i),
			YtdActualBase:  decimal.NewFromInt(100),
		})
	}

	err := s.WithTx(ctx, func(tx *store.Tx) error {
		n, err := tx.UpdateColumn("a_general_ledger_master", "account_code", "5003", "5099", map[string]any{"ledger_number": 43})
		assert.Equal(t, int64(2), n)
		return err
	})
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&models.GeneralLedgerMaster{}).Where("account_code = ?", "5003").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCloneRowsAndDeleteRows(t *testing.T) {
	ctx := context.Background()
	s, db := dbtest.NewStore(t)
	dbtest.Create(t, db,
		&models.AnalysisAttribute{LedgerNumber: 43, AnalysisTypeCode: "GIFT", AccountCode: "5003", Active: true},
		&models.AnalysisAttribute{LedgerNumber: 43, AnalysisTypeCode: "TRIP", AccountCode: "5003", Active: false},
	)

	err := s.WithTx(ctx, func(tx *store.Tx) error {
		scope := map[string]any{"ledger_number": 43}
		n, err := tx.CloneRows("a_analysis_attribute", "account_code", "5003", "5099", scope)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = tx.CloneRows("a_analysis_attribute", "account_code", "7777", "7778", scope)
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = tx.DeleteRows("a_analysis_attribute", "account_code", "5003", scope)
		assert.Equal(t, int64(2), n)
		return err
	})
	require.NoError(t, err)

	var got []models.AnalysisAttribute
	require.NoError(t, db.Order("analysis_type_code").Find(&got).Error)
	require.Len(t, got, 2)
	assert.Equal(t, "5099", got[0].AccountCode)
	assert.True(t, got[0].Active)
	assert.False(t, got[1].Active)
}

func TestRetryResult(t *testing.T) {
	res := store.RetryResult("Import", fmt.Errorf("update a_account: %w", store.ErrConcurrentModification))
	assert.Equal(t, verification.CodeConcurrentModification, res.Code)
	assert.True(t, res.Retryable)
	assert.Equal(t, verification.Critical, res.Severity)

	res = store.RetryResult("Rename", &mysql.MySQLError{Number: 1213})
	assert.Equal(t, verification.CodeSerialization, res.Code)
	assert.True(t, res.Retryable)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("syntax error"), false},
		{fmt.Errorf("update: %w", store.ErrConcurrentModification), true},
		{&mysql.MySQLError{Number: 1213}, true},
		{&mysql.MySQLError{Number: 1205}, true},
		{&mysql.MySQLError{Number: 1062}, false},
		{&pgconn.PgError{Code: "40001"}, true},
		{&pgconn.PgError{Code: "40P01"}, true},
		{&pgconn.PgError{Code: "23505"}, false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, store.IsRetryable(test.err), "%v", test.err)
	}
}
