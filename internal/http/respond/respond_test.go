package respond

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/money/internal/account"
	"github.com/MrJamesThe3rd/money/internal/category"
	"github.com/MrJamesThe3rd/money/internal/currency"
	"github.com/MrJamesThe3rd/money/internal/record"
	"github.com/MrJamesThe3rd/money/internal/user"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "RecordValidation", err: record.ErrInvalidAmount, want: http.StatusBadRequest},
		{name: "WrappedValidation", err: fmt.Errorf("entry 3: %w", record.ErrCurrencyMismatch), want: http.StatusBadRequest},
		{name: "AccountValidation", err: account.ErrInvalidBalance, want: http.StatusBadRequest},
		{name: "UnknownCurrency", err: currency.ErrUnknown, want: http.StatusBadRequest},
		{name: "UserValidation", err: user.ErrPasswordTooShort, want: http.StatusBadRequest},
		{name: "Credentials", err: user.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "AccountNotFound", err: account.ErrNotFound, want: http.StatusNotFound},
		{name: "RecordNotFound", err: record.ErrNotFound, want: http.StatusNotFound},
		{name: "DuplicateCategory", err: category.ErrDuplicateName, want: http.StatusConflict},
		{name: "EmailTaken", err: user.ErrEmailTaken, want: http.StatusConflict},
		{name: "Unexpected", err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	Error(rec, req, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestError_ExposesValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", nil)

	Error(rec, req, record.ErrMissingTitle)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"`+record.ErrMissingTitle.Error()+`"}`, rec.Body.String())
}
