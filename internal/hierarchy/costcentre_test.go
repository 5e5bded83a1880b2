package hierarchy

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gl-setup/internal/apperrors"
	"gl-setup/internal/dbtest"
	"gl-setup/internal/verification"
	"gl-setup/models"
)

const costCentres = `"[43]":
  descr: Germany
  "4300":
    descr: General
  "4302":
    descr: Foreign office
    type: Foreign
    "4303":
      descr: Field team
  "4301":
    descr: Youth work
    active: false
`

func loadCostCentre(t *testing.T, db *gorm.DB, code string) models.CostCentre {
	t.Helper()
	var cc models.CostCentre
	require.NoError(t, db.Where("ledger_number = ? AND cost_centre_code = ?", ledger, code).Take(&cc).Error)
	return cc
}

func TestCostCentreImport(t *testing.T) {
	e, db := setup(t)
	res := mustImport(t, e, models.KindCostCentre, costCentres)
	assert.Equal(t, 5, res.Created)
	assert.Equal(t, []string{"CostCentreList"}, res.Invalidated)

	root := loadCostCentre(t, db, "[43]")
	assert.Nil(t, root.CostCentreToReportTo)
	assert.False(t, root.PostingCostCentreFlag)
	assert.Equal(t, models.CostCentreTypeLocal, root.CostCentreType)

	field := loadCostCentre(t, db, "4303")
	require.NotNil(t, field.CostCentreToReportTo)
	assert.Equal(t, "4302", *field.CostCentreToReportTo)
	assert.Equal(t, models.CostCentreTypeForeign, field.CostCentreType)
	assert.True(t, field.PostingCostCentreFlag)
	assert.True(t, field.CostCentreActiveFlag)

	assert.False(t, loadCostCentre(t, db, "4301").CostCentreActiveFlag)
}

func TestCostCentreExportOrdersByCode(t *testing.T) {
	e, _ := setup(t)
	mustImport(t, e, models.KindCostCentre, costCentres)

	root := export(t, e, models.KindCostCentre)
	assert.Equal(t, []string{"[43]>4300", "[43]>4301", "[43]>4302", "4302>4303"}, shape(root))

	doc, err := e.Export(context.Background(), ledger, models.KindCostCentre, "")
	require.NoError(t, err)
	assert.Equal(t, root, doc)
}

func TestCostCentreMove(t *testing.T) {
	e, db := setup(t)
	mustImport(t, e, models.KindCostCentre, costCentres)

	moved := strings.Replace(costCentres, "    \"4303\":\n      descr: Field team\n", "", 1)
	moved += "    \"4303\":\n      descr: Field team\n"
	res := mustImport(t, e, models.KindCostCentre, moved)
	assert.Equal(t, 5, res.Updated)

	field := loadCostCentre(t, db, "4303")
	assert.Equal(t, "4301", *field.CostCentreToReportTo)
	// inherited from its new parent
	assert.Equal(t, models.CostCentreTypeLocal, field.CostCentreType)
	assert.False(t, loadCostCentre(t, db, "4302").PostingCostCentreFlag)
}

func TestCostCentreDeletion(t *testing.T) {
	e, db := setup(t)
	mustImport(t, e, models.KindCostCentre, costCentres)

	// dropping a subtree deletes the child before its parent
	res := mustImport(t, e, models.KindCostCentre, strings.Replace(costCentres,
		"  \"4302\":\n    descr: Foreign office\n    type: Foreign\n    \"4303\":\n      descr: Field team\n", "", 1))
	assert.Equal(t, 2, res.Deleted)

	var n int64
	require.NoError(t, db.Model(&models.CostCentre{}).Count(&n).Error)
	assert.Equal(t, int64(3), n)
}

func TestCostCentreDeletionGuards(t *testing.T) {
	e, db := setup(t)
	mustImport(t, e, models.KindCostCentre, costCentres)
	require.NoError(t, db.Model(&models.CostCentre{}).
		Where("cost_centre_code = ?", "4301").
		Update("system_cost_centre_flag", true).Error)
	dbtest.Create(t, db, &models.ValidLedgerNumber{LedgerNumber: ledger, PartnerKey: 73000000, CostCentreCode: "4303"})

	doc := "\"[43]\":\n  descr: Germany\n  \"4300\":\n    descr: General\n"
	res := importDoc(t, e, models.KindCostCentre, doc)
	assert.False(t, res.Committed)
	var contexts []string
	for _, r := range res.Verification {
		assert.Equal(t, verification.CodeReferentialIntegrity, r.Code)
		contexts = append(contexts, r.Context)
	}
	assert.ElementsMatch(t, []string{"Cost centre 4301", "Cost centre 4303"}, contexts)

	var n int64
	require.NoError(t, db.Model(&models.CostCentre{}).Count(&n).Error)
	assert.Equal(t, int64(5), n)
}

func TestCostCentreDeletionGuardFeesAndSuppliers(t *testing.T) {
	e, db := setup(t)
	mustImport(t, e, models.KindCostCentre, costCentres)
	dbtest.Create(t, db,
		&models.FeesReceivable{LedgerNumber: ledger, FeeCode: "GIF", CostCentreCode: "4303", AccountCode: "0200"},
		&models.ApDocumentDetail{LedgerNumber: ledger, ApDocumentID: 1, DetailNumber: 1, AccountCode: "5003", CostCentreCode: "4301", Amount: decimal.NewFromInt(10)},
		&models.ApSupplier{PartnerKey: 43000001, DefaultCostCentre: "4302"},
	)

	doc := "\"[43]\":\n  descr: Germany\n  \"4300\":\n    descr: General\n"
	res := importDoc(t, e, models.KindCostCentre, doc)
	assert.False(t, res.Committed)
	messages := map[string]string{}
	for _, r := range res.Verification {
		assert.Equal(t, verification.CodeReferentialIntegrity, r.Code)
		messages[r.Context] = r.Message
	}
	assert.Contains(t, messages["Cost centre 4303"], "fees receivable")
	assert.Contains(t, messages["Cost centre 4301"], "AP documents")
	assert.Contains(t, messages["Cost centre 4302"], "supplier defaults")

	var n int64
	require.NoError(t, db.Model(&models.CostCentre{}).Count(&n).Error)
	assert.Equal(t, int64(5), n)
}

func TestCostCentreRejectsSecondRoot(t *testing.T) {
	e, _ := setup(t)
	mustImport(t, e, models.KindCostCentre, costCentres)

	res := importDoc(t, e, models.KindCostCentre, "\"[44]\":\n  descr: Other\n")
	assert.True(t, res.Verification.HasCode(verification.CodeDuplicateRoot))
}

func TestCostCentreInvalidType(t *testing.T) {
	e, _ := setup(t)

	res := importDoc(t, e, models.KindCostCentre, "\"[43]\":\n  type: Regional\n")
	assert.False(t, res.Committed)
	require.Len(t, res.Verification, 1)
	assert.Contains(t, res.Verification[0].Message, "Local, Foreign")
}

func TestCheckDeletable(t *testing.T) {
	e, db := setup(t)
	ctx := context.Background()
	mustImport(t, e, models.KindAccount, chart)
	mustImport(t, e, models.KindCostCentre, costCentres)
	dbtest.Create(t, db, transaction(1, "4500", "4300"))

	vr, err := e.CheckDeletable(ctx, ledger, models.KindAccount, "5003")
	require.NoError(t, err)
	assert.Empty(t, vr)

	vr, err = e.CheckDeletable(ctx, ledger, models.KindAccount, "4500")
	require.NoError(t, err)
	assert.True(t, vr.HasCode(verification.CodeReferentialIntegrity))

	vr, err = e.CheckDeletable(ctx, ledger, models.KindAccount, "EXP")
	require.NoError(t, err)
	require.Len(t, vr, 1)
	assert.Equal(t, verification.CodeHasChildren, vr[0].Code)

	vr, err = e.CheckDeletable(ctx, ledger, models.KindCostCentre, "4302")
	require.NoError(t, err)
	assert.True(t, vr.HasCode(verification.CodeHasChildren))

	vr, err = e.CheckDeletable(ctx, ledger, models.KindCostCentre, "4300")
	require.NoError(t, err)
	assert.True(t, vr.HasCriticalErrors())

	_, err = e.CheckDeletable(ctx, ledger, models.KindAccount, "0000")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = e.CheckDeletable(ctx, ledger, models.KindAccount, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
