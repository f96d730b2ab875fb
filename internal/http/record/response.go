package record

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/money/internal/record"
)

type Response struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description,omitempty"`
	Amount        decimal.Decimal      `json:"amount"`
	Type          record.Type          `json:"type"`
	AccountID     *uuid.UUID           `json:"account_id,omitempty"`
	FromAccountID *uuid.UUID           `json:"from_account_id,omitempty"`
	ToAccountID   *uuid.UUID           `json:"to_account_id,omitempty"`
	CategoryID    *uuid.UUID           `json:"category_id,omitempty"`
	PaymentMethod record.PaymentMethod `json:"payment_method"`
	Currency      string               `json:"currency"`
	OccurredAt    time.Time            `json:"occurred_at"`
	CreatedAt     time.Time            `json:"created_at"`
}

func ToResponse(r *record.Record) Response {
	return Response{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Amount:        r.Amount,
		Type:          r.Type,
		AccountID:     r.AccountID,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		CategoryID:    r.CategoryID,
		PaymentMethod: r.PaymentMethod,
		Currency:      r.Currency,
		OccurredAt:    r.OccurredAt,
		CreatedAt:     r.CreatedAt,
	}
}

func ToResponseList(records []*record.Record) []Response {
	resp := make([]Response, 0, len(records))
	for _, r := range records {
		resp = append(resp, ToResponse(r))
	}

	return resp
}
