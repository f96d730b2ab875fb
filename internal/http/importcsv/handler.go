package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/money/internal/http/auth"
	recordhttp "github.com/MrJamesThe3rd/money/internal/http/record"
	"github.com/MrJamesThe3rd/money/internal/http/respond"
	"github.com/MrJamesThe3rd/money/internal/importer"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Imported int                   `json:"imported"`
	Records  []recordhttp.Response `json:"records"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		respond.BadRequest(w, "bank field is required")
		return
	}

	accountID, err := uuid.Parse(r.FormValue("account_id"))
	if err != nil {
		respond.BadRequest(w, "account_id field is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	records, err := h.importSvc.Import(r.Context(), importer.ImportParams{
		OwnerID:   auth.Owner(r.Context()),
		AccountID: accountID,
		Bank:      bank,
		File:      file,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importResponse{
		Imported: len(records),
		Records:  recordhttp.ToResponseList(records),
	})
}
