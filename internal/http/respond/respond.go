// Package respond writes JSON bodies and maps service errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/money/internal/account"
	"github.com/MrJamesThe3rd/money/internal/category"
	"github.com/MrJamesThe3rd/money/internal/currency"
	"github.com/MrJamesThe3rd/money/internal/importer"
	"github.com/MrJamesThe3rd/money/internal/record"
	"github.com/MrJamesThe3rd/money/internal/user"
)

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status its kind maps to. Unexpected errors are
// logged and hidden behind a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSON(w, status, errorResponse{Error: "internal error"})

		return
	}

	JSON(w, status, errorResponse{Error: err.Error()})
}

// BadRequest writes a 400 with msg.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func Status(err error) int {
	switch {
	case errors.Is(err, record.ErrInvalid),
		errors.Is(err, account.ErrInvalid),
		errors.Is(err, category.ErrInvalid),
		errors.Is(err, user.ErrInvalid),
		errors.Is(err, currency.ErrUnknown),
		errors.Is(err, importer.ErrUnknownBank),
		errors.Is(err, importer.ErrInvalidStatement):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, record.ErrNotFound),
		errors.Is(err, account.ErrNotFound),
		errors.Is(err, category.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, account.ErrDuplicateName),
		errors.Is(err, category.ErrDuplicateName),
		errors.Is(err, user.ErrUsernameTaken),
		errors.Is(err, user.ErrEmailTaken):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}
