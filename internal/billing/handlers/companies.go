package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tenders-netizen/quotedesk/internal/billing/models"
)

func (h *Handlers) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var candidate models.Company
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.directory.Add(r.Context(), candidate)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) ListCompanies(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.directory.List())
}

func (h *Handlers) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	company, err := h.directory.FindByID(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, company)
}

func (h *Handlers) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	var update models.CompanyUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	update.ID = id

	updated, err := h.directory.Update(r.Context(), update)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// SearchCompanies distinguishes an inactive search (query too short)
// from an active search with no matches: the former yields
// active=false, the latter active=true with an empty result list.
func (h *Handlers) SearchCompanies(w http.ResponseWriter, r *http.Request) {
	results, active := h.directory.Search(r.URL.Query().Get("q"))
	if !active {
		h.writeJSON(w, http.StatusOK, searchResponse{Active: false, Results: []models.Company{}})
		return
	}
	h.writeJSON(w, http.StatusOK, searchResponse{Active: true, Results: results})
}

type searchResponse struct {
	Active  bool             `json:"active"`
	Results []models.Company `json:"results"`
}
