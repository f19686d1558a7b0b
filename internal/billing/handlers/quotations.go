package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tenders-netizen/quotedesk/internal/billing/models"
	"go.uber.org/zap"
)

func (h *Handlers) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	var draft models.QuotationDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if draft.Mode == "" {
		draft.Mode = models.ModeManual
	}

	created, err := h.ledger.Add(r.Context(), draft)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) ListQuotations(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.ledger.List())
}

func (h *Handlers) GetQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid quotation id")
		return
	}

	quotation, err := h.ledger.FindByID(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quotation)
}

// DeleteQuotation is idempotent: deleting an absent id succeeds.
func (h *Handlers) DeleteQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid quotation id")
		return
	}

	if err := h.ledger.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) SetQuotationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid quotation id")
		return
	}

	var req struct {
		Status models.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.ledger.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// QuotationPDF renders the quotation and returns it as an attachment.
func (h *Handlers) QuotationPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid quotation id")
		return
	}

	quotation, err := h.ledger.FindByID(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	data, err := h.renderer.Generate(*quotation)
	if err != nil {
		h.logger.Error("pdf generation failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "pdf generation failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="quotation-%s.pdf"`, quotation.QuotationNumber))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
