// Package handlers exposes the billing service over REST, bridging the
// HTTP layer and the directory/ledger business logic.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	e "github.com/tenders-netizen/quotedesk/internal/billing/errors"
	"github.com/tenders-netizen/quotedesk/internal/billing/filestore"
	"github.com/tenders-netizen/quotedesk/internal/billing/models"
	"github.com/tenders-netizen/quotedesk/internal/billing/pdf"
	"go.uber.org/zap"
)

// CompanyDirectory defines the directory operations the handlers invoke.
type CompanyDirectory interface {
	Add(ctx context.Context, candidate models.Company) (*models.Company, error)
	Update(ctx context.Context, update models.CompanyUpdate) (*models.Company, error)
	Search(query string) ([]models.Company, bool)
	FindByID(id int64) (*models.Company, error)
	List() []models.Company
}

// QuotationLedger defines the ledger operations the handlers invoke.
type QuotationLedger interface {
	Add(ctx context.Context, draft models.QuotationDraft) (*models.Quotation, error)
	List() []models.Quotation
	FindByID(id int64) (*models.Quotation, error)
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status models.Status) (*models.Quotation, error)
}

// Handlers holds the dependencies shared by all route handlers.
type Handlers struct {
	directory CompanyDirectory
	ledger    QuotationLedger
	storage   filestore.Storage
	renderer  *pdf.Generator
	logger    *zap.Logger
}

func New(directory CompanyDirectory, ledger QuotationLedger, storage filestore.Storage, logger *zap.Logger) *Handlers {
	return &Handlers{
		directory: directory,
		ledger:    ledger,
		storage:   storage,
		renderer:  pdf.New(),
		logger:    logger.Named("http_handler"),
	}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto HTTP statuses.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, e.ErrDuplicate):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, e.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
