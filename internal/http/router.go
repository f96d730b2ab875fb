package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/money/internal/http/account"
	"github.com/MrJamesThe3rd/money/internal/http/auth"
	"github.com/MrJamesThe3rd/money/internal/http/category"
	"github.com/MrJamesThe3rd/money/internal/http/currency"
	"github.com/MrJamesThe3rd/money/internal/http/importcsv"
	"github.com/MrJamesThe3rd/money/internal/http/record"
	"github.com/MrJamesThe3rd/money/internal/http/user"
)

type Handlers struct {
	Accounts   *account.Handler
	Records    *record.Handler
	Categories *category.Handler
	Currencies *currency.Handler
	Users      *user.Handler
	Import     *importcsv.Handler
}

func New(issuer *auth.Issuer, allowedOrigins []string, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Users.Routes(r)
		})

		r.Route("/currencies", h.Currencies.Routes)

		r.Group(func(r chi.Router) {
			r.Use(issuer.Middleware)

			r.Route("/accounts", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Accounts.Routes(r)
			})

			r.Route("/records", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Records.Routes(r)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Categories.Routes(r)
			})

			r.Route("/import", h.Import.Routes)
		})
	})

	return router
}
