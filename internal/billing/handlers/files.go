package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	e "github.com/tenders-netizen/quotedesk/internal/billing/errors"
	"go.uber.org/zap"
)

// maxUploadBytes caps uploads at 5 MiB.
const maxUploadBytes = 5 << 20

// UploadPDF accepts a multipart upload in the "pdf" field, stores the
// blob under a generated unique filename and returns its handle.
func (h *Handlers) UploadPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1024)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "PDF exceeds the 5 MiB limit")
			return
		}
		h.writeError(w, http.StatusBadRequest, "No PDF file uploaded")
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "No PDF file uploaded")
		return
	}
	defer file.Close()

	if header.Header.Get("Content-Type") != "application/pdf" {
		h.writeError(w, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	filename := uuid.New().String() + "-" + filepath.Base(header.Filename)
	url, err := h.storage.Put(r.Context(), filename, "application/pdf", file)
	if err != nil {
		h.logger.Error("upload failed", zap.String("filename", filename), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to store PDF")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"filename": filename,
		"url":      url,
	})
}

// DownloadPDF streams a previously uploaded blob by its filename.
func (h *Handlers) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	rc, err := h.storage.Get(r.Context(), filename)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "PDF file not found")
			return
		}
		h.logger.Error("download failed", zap.String("filename", filename), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to fetch PDF")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(filename)+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("streaming PDF failed", zap.String("filename", filename), zap.Error(err))
	}
}
