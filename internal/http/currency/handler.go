package currency

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/money/internal/currency"
	"github.com/MrJamesThe3rd/money/internal/http/respond"
)

type Handler struct {
	svc *currency.Service
}

func NewHandler(svc *currency.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{code}", h.get)
}

type currencyResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	NumericCode string `json:"numeric_code"`
	MinorUnit   int32  `json:"minor_unit"`
	Active      bool   `json:"active"`
	Default     bool   `json:"default"`
}

func (h *Handler) toResponse(c currency.Currency) currencyResponse {
	return currencyResponse{
		Code:        c.Code,
		Name:        c.Name,
		NumericCode: c.NumericCode,
		MinorUnit:   c.MinorUnit,
		Active:      c.Active,
		Default:     c.Code == h.svc.Default().Code,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	currencies := h.svc.List()

	resp := make([]currencyResponse, 0, len(currencies))
	for _, c := range currencies {
		resp = append(resp, h.toResponse(c))
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Resolve(chi.URLParam(r, "code"))
	if err != nil {
		respond.JSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	respond.JSON(w, http.StatusOK, h.toResponse(c))
}
