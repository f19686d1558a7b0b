package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware(t *testing.T) {
	const secret = "test-secret"
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := HTTPMiddleware(next, secret)

	t.Run("reads pass without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("uploads pass without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/upload-pdf", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("mutation without token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/companies", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("mutation with valid token passes", func(t *testing.T) {
		token, err := GenerateToken("tester", secret)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodDelete, "/api/quotations/1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("token signed with wrong secret is rejected", func(t *testing.T) {
		token, err := GenerateToken("tester", "other-secret")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/quotations", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
