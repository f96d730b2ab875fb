package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/money/internal/account"
	"github.com/MrJamesThe3rd/money/internal/category"
	"github.com/MrJamesThe3rd/money/internal/config"
	"github.com/MrJamesThe3rd/money/internal/currency"
	"github.com/MrJamesThe3rd/money/internal/events"
	"github.com/MrJamesThe3rd/money/internal/events/kafka"
	moneyHttp "github.com/MrJamesThe3rd/money/internal/http"
	accountHandler "github.com/MrJamesThe3rd/money/internal/http/account"
	"github.com/MrJamesThe3rd/money/internal/http/auth"
	categoryHandler "github.com/MrJamesThe3rd/money/internal/http/category"
	currencyHandler "github.com/MrJamesThe3rd/money/internal/http/currency"
	importHandler "github.com/MrJamesThe3rd/money/internal/http/importcsv"
	recordHandler "github.com/MrJamesThe3rd/money/internal/http/record"
	userHandler "github.com/MrJamesThe3rd/money/internal/http/user"
	"github.com/MrJamesThe3rd/money/internal/importer"
	"github.com/MrJamesThe3rd/money/internal/provision"
	"github.com/MrJamesThe3rd/money/internal/record"
	"github.com/MrJamesThe3rd/money/internal/user"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	currencyService, err := currency.NewService(cfg.Ledger.DefaultCurrency)
	if err != nil {
		return err
	}

	repos, closeRepos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepos()

	var publisher events.Publisher = events.Nop{}

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()

		publisher = kafkaPublisher
	}

	var (
		accountService   = account.NewService(repos.accounts, currencyService, publisher)
		categoryService  = category.NewService(repos.categories)
		recordService    = record.NewService(repos.records, accountService, categoryService, currencyService, publisher)
		provisionService = provision.NewService(accountService, categoryService)
		userService      = user.NewService(repos.users, provisionService)
		importService    = importer.NewService(recordService, categoryService)
		issuer           = auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	)

	router := moneyHttp.New(issuer, cfg.Server.CORSAllowedOrigins, moneyHttp.Handlers{
		Accounts:   accountHandler.NewHandler(accountService),
		Records:    recordHandler.NewHandler(recordService),
		Categories: categoryHandler.NewHandler(categoryService),
		Currencies: currencyHandler.NewHandler(currencyService),
		Users:      userHandler.NewHandler(userService, issuer),
		Import:     importHandler.NewHandler(importService),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "backend", cfg.Storage.Backend)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
