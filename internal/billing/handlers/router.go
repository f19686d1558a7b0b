package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tenders-netizen/quotedesk/internal/billing/auth"
	"github.com/tenders-netizen/quotedesk/internal/billing/filestore"
)

// NewRouter wires all routes. When jwtSecret is non-empty, mutating
// API routes require a bearer token. When local is non-nil, uploaded
// blobs are also served statically under /uploads/pdfs/.
func NewRouter(h *Handlers, jwtSecret string, local *filestore.Local) http.Handler {
	r := chi.NewRouter()

	r.Use(withCORS)
	r.Use(countRequests)

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/companies", func(r chi.Router) {
			r.Post("/", h.CreateCompany)
			r.Get("/", h.ListCompanies)
			r.Get("/search", h.SearchCompanies)
			r.Get("/{id}", h.GetCompany)
			r.Patch("/{id}", h.UpdateCompany)
		})

		r.Route("/quotations", func(r chi.Router) {
			r.Post("/", h.CreateQuotation)
			r.Get("/", h.ListQuotations)
			r.Get("/{id}", h.GetQuotation)
			r.Delete("/{id}", h.DeleteQuotation)
			r.Put("/{id}/status", h.SetQuotationStatus)
			r.Get("/{id}/pdf", h.QuotationPDF)
		})

		r.Post("/upload-pdf", h.UploadPDF)
		r.Get("/download-pdf/{filename}", h.DownloadPDF)
	})

	if local != nil {
		fileServer := http.StripPrefix("/uploads/pdfs/", http.FileServer(http.Dir(local.Dir())))
		r.Get("/uploads/pdfs/*", fileServer.ServeHTTP)
	}

	if jwtSecret != "" {
		return auth.HTTPMiddleware(r, jwtSecret)
	}
	return r
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
