package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/money/internal/account"
	accountStore "github.com/MrJamesThe3rd/money/internal/account/store"
	"github.com/MrJamesThe3rd/money/internal/category"
	categoryStore "github.com/MrJamesThe3rd/money/internal/category/store"
	"github.com/MrJamesThe3rd/money/internal/config"
	"github.com/MrJamesThe3rd/money/internal/currency"
	"github.com/MrJamesThe3rd/money/internal/database"
	"github.com/MrJamesThe3rd/money/internal/events"
	"github.com/MrJamesThe3rd/money/internal/provision"
	"github.com/MrJamesThe3rd/money/internal/user"
	userStore "github.com/MrJamesThe3rd/money/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	username := flag.String("username", os.Getenv("MONEY_USERNAME"), "username of the new user")
	email := flag.String("email", os.Getenv("MONEY_EMAIL"), "email of the new user")
	password := flag.String("password", os.Getenv("MONEY_PASSWORD"), "password of the new user")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Storage.Backend != config.BackendPostgres {
		slog.Error("create-user requires the postgres backend", "backend", cfg.Storage.Backend)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	currencyService, err := currency.NewService(cfg.Ledger.DefaultCurrency)
	if err != nil {
		slog.Error("invalid default currency", "error", err)
		os.Exit(1)
	}

	var (
		accountService  = account.NewService(accountStore.New(db), currencyService, events.Nop{})
		categoryService = category.NewService(categoryStore.New(db))
		userService     = user.NewService(userStore.New(db), provision.NewService(accountService, categoryService))
	)

	u, err := userService.Register(ctx, user.RegisterParams{
		Username:        *username,
		Email:           *email,
		FirstName:       *firstName,
		LastName:        *lastName,
		Password:        *password,
		ConfirmPassword: *password,
	})
	if err != nil {
		slog.Error("failed to create user", "error", err)
		os.Exit(1)
	}

	slog.Info("user created", "id", u.ID, "username", u.Username)
}
