// Package seed loads a small chart of accounts and cost centre tree for local
// development.
package seed

import (
	"bytes"
	"context"
	"embed"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gl-setup/internal/hierarchy"
	"gl-setup/internal/store"
	"gl-setup/models"
)

//go:embed fixtures/*.yaml
var fixtures embed.FS

// Ledger is the number of the development ledger.
const Ledger = 43

// Run creates ledger 43 and imports the fixtures for each hierarchy that is
// still empty. Running it twice is harmless.
func Run(ctx context.Context, db *gorm.DB, engine *hierarchy.Engine, hierarchyName string, log *zap.Logger) error {
	var cnt int64
	if err := db.WithContext(ctx).Model(&models.Ledger{}).Where("ledger_number = ?", Ledger).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		l := models.Ledger{
			LedgerNumber:            Ledger,
			LedgerName:              "Germany",
			BaseCurrency:            "EUR",
			ForexGainsLossesAccount: "5600",
			RetEarningsAccount:      "8500",
			ModificationID:          store.NewModificationID(),
		}
		if err := db.WithContext(ctx).Create(&l).Error; err != nil {
			return err
		}
	}

	steps := []struct {
		kind  models.NodeKind
		model any
		file  string
	}{
		{models.KindAccount, &models.Account{}, "fixtures/accounts.yaml"},
		{models.KindCostCentre, &models.CostCentre{}, "fixtures/costcentres.yaml"},
	}
	for _, s := range steps {
		if err := db.WithContext(ctx).Model(s.model).Where("ledger_number = ?", Ledger).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			continue
		}
		doc, err := fixtures.ReadFile(s.file)
		if err != nil {
			return err
		}
		res, err := engine.Import(ctx, Ledger, s.kind, hierarchyName, bytes.NewReader(doc))
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.kind, err)
		}
		if !res.Committed {
			return fmt.Errorf("seed %s: %w", s.kind, res.Verification.Err())
		}
		log.Info("seeded hierarchy", zap.String("kind", string(s.kind)), zap.Int("created", res.Created))
	}
	return nil
}
