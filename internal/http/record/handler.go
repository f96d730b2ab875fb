package record

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/money/internal/http/auth"
	"github.com/MrJamesThe3rd/money/internal/http/respond"
	"github.com/MrJamesThe3rd/money/internal/record"
)

type Handler struct {
	svc *record.Service
}

func NewHandler(svc *record.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type createRecordRequest struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Amount        decimal.Decimal      `json:"amount"`
	Type          record.Type          `json:"type"`
	AccountID     *uuid.UUID           `json:"account_id,omitempty"`
	FromAccountID *uuid.UUID           `json:"from_account_id,omitempty"`
	ToAccountID   *uuid.UUID           `json:"to_account_id,omitempty"`
	CategoryID    *uuid.UUID           `json:"category_id,omitempty"`
	PaymentMethod record.PaymentMethod `json:"payment_method"`
	Currency      string               `json:"currency"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	rec, err := h.svc.Create(r.Context(), record.CreateParams{
		OwnerID:       auth.Owner(r.Context()),
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		Type:          req.Type,
		AccountID:     req.AccountID,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		CategoryID:    req.CategoryID,
		PaymentMethod: req.PaymentMethod,
		Currency:      req.Currency,
		OccurredAt:    req.OccurredAt,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, ToResponse(rec))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := record.ListFilter{OwnerID: auth.Owner(r.Context())}
	q := r.URL.Query()

	if s := q.Get("account_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respond.BadRequest(w, "invalid account_id")
			return
		}

		filter.AccountID = &id
	}

	if s := q.Get("type"); s != "" {
		t := record.Type(s)
		if !t.Valid() {
			respond.Error(w, r, record.ErrInvalidType)
			return
		}

		filter.Type = &t
	}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			respond.BadRequest(w, "invalid start_date")
			return
		}

		filter.StartDate = new(t)
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			respond.BadRequest(w, "invalid end_date")
			return
		}

		// Inclusive of the whole end day.
		filter.EndDate = new(t.Add(24*time.Hour - time.Nanosecond))
	}

	records, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponseList(records))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	rec, err := h.svc.Get(r.Context(), auth.Owner(r.Context()), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponse(rec))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), auth.Owner(r.Context()), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
