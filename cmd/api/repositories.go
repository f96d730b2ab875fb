package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/money/internal/account"
	accountStore "github.com/MrJamesThe3rd/money/internal/account/store"
	"github.com/MrJamesThe3rd/money/internal/category"
	categoryStore "github.com/MrJamesThe3rd/money/internal/category/store"
	"github.com/MrJamesThe3rd/money/internal/config"
	"github.com/MrJamesThe3rd/money/internal/database"
	"github.com/MrJamesThe3rd/money/internal/memstore"
	"github.com/MrJamesThe3rd/money/internal/record"
	recordStore "github.com/MrJamesThe3rd/money/internal/record/store"
	"github.com/MrJamesThe3rd/money/internal/user"
	userStore "github.com/MrJamesThe3rd/money/internal/user/store"
)

type repositories struct {
	accounts   account.Repository
	records    record.Repository
	categories category.Repository
	users      user.Repository
}

// openRepositories returns the repositories for the configured backend and a
// function releasing whatever they hold.
func openRepositories(ctx context.Context, cfg *config.Config) (repositories, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		slog.Warn("using in-memory storage, data is lost on restart")

		store := memstore.New()

		return repositories{
			accounts:   store,
			records:    store,
			categories: store,
			users:      store,
		}, func() {}, nil

	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return repositories{}, nil, fmt.Errorf("connecting to database: %w", err)
		}

		if cfg.DB.Migrate {
			if err := database.Migrate(db); err != nil {
				db.Close()
				return repositories{}, nil, fmt.Errorf("migrating database: %w", err)
			}
		}

		closeDB := func() {
			if err := db.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}

		return repositories{
			accounts:   accountStore.New(db),
			records:    recordStore.New(db),
			categories: categoryStore.New(db),
			users:      userStore.New(db),
		}, closeDB, nil
	}

	return repositories{}, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
