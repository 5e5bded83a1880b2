package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gl-setup/internal/dbtest"
	"gl-setup/internal/hierarchy"
	"gl-setup/models"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	s, db := dbtest.NewStore(t)
	log := zaptest.NewLogger(t)
	engine := hierarchy.NewEngine(s, log)

	require.NoError(t, Run(ctx, db, engine, models.DefaultHierarchy, log))
	require.NoError(t, Run(ctx, db, engine, models.DefaultHierarchy, log))

	var n int64
	require.NoError(t, db.Model(&models.Account{}).Count(&n).Error)
	assert.Equal(t, int64(23), n)
	require.NoError(t, db.Model(&models.CostCentre{}).Count(&n).Error)
	assert.Equal(t, int64(6), n)

	var l models.Ledger
	require.NoError(t, db.Take(&l).Error)
	assert.Equal(t, "5600", l.ForexGainsLossesAccount)

	root, err := engine.Export(ctx, Ledger, models.KindAccount, models.DefaultHierarchy)
	require.NoError(t, err)
	assert.Equal(t, "GL", root.Name)
	assert.Len(t, root.Children, 2)
}
