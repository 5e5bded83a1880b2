// Package app wires the configured database, engines and caches together for
// the server and the CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gl-setup/internal/cache"
	"gl-setup/internal/config"
	"gl-setup/internal/controllers"
	"gl-setup/internal/database"
	"gl-setup/internal/hierarchy"
	"gl-setup/internal/rename"
	"gl-setup/internal/seed"
	"gl-setup/internal/store"
)

type App struct {
	Config    config.Config
	Log       *zap.Logger
	DB        *gorm.DB
	Store     *store.DB
	Hierarchy *hierarchy.Engine
	Renamer   *rename.Engine
	Caches    *cache.Caches
}

// New opens everything cfg names. With SEED_DEV=1 the development ledger is
// loaded before New returns.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	isolation, err := cfg.Isolation()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	caches, err := cache.Open(cfg)
	if err != nil {
		return nil, multierr.Append(err, closeDB(db))
	}

	s := store.New(db, isolation, log)
	a := &App{
		Config:    cfg,
		Log:       log,
		DB:        db,
		Store:     s,
		Hierarchy: hierarchy.NewEngine(s, log),
		Renamer:   rename.NewEngine(s, log),
		Caches:    caches,
	}
	if cfg.SeedDev {
		if err := seed.Run(ctx, db, a.Hierarchy, cfg.Hierarchy, log); err != nil {
			return nil, multierr.Append(fmt.Errorf("seed: %w", err), a.Close())
		}
	}
	return a, nil
}

func (a *App) Controller() controllers.HierarchyController {
	return controllers.HierarchyController{
		Hierarchy:        a.Hierarchy,
		Renamer:          a.Renamer,
		Documents:        a.Caches.Documents,
		Cache:            a.Caches.Invalidator,
		DefaultHierarchy: a.Config.Hierarchy,
		Log:              a.Log,
	}
}

func (a *App) Close() error {
	return multierr.Append(a.Caches.Close(), closeDB(a.DB))
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
