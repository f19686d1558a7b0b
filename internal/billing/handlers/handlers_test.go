package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenders-netizen/quotedesk/internal/billing/directory"
	"github.com/tenders-netizen/quotedesk/internal/billing/events"
	"github.com/tenders-netizen/quotedesk/internal/billing/filestore"
	"github.com/tenders-netizen/quotedesk/internal/billing/ledger"
	"github.com/tenders-netizen/quotedesk/internal/billing/models"
	"github.com/tenders-netizen/quotedesk/internal/pkg/idgen"
	"go.uber.org/zap/zaptest"
)

type fakeStore struct {
	blobs map[string][]byte
}

func (f *fakeStore) Load(_ context.Context, collection string, out any) error {
	data, ok := f.blobs[collection]
	if !ok {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (f *fakeStore) Save(_ context.Context, collection string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	f.blobs[collection] = data
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := &fakeStore{blobs: map[string][]byte{}}
	ids := idgen.New()
	ctx := context.Background()

	dir := directory.New(ctx, store, events.Nop{}, ids, logger)
	led := ledger.New(ctx, store, events.Nop{}, ids, logger)
	local, err := filestore.NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	h := New(dir, led, local, logger)
	srv := httptest.NewServer(NewRouter(h, "", local))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCompanyRoutes(t *testing.T) {
	srv := newTestServer(t)

	t.Run("create", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/companies", `{"name":"Acme","phone":"9876543210"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		created := decode[models.Company](t, resp)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "Acme", created.Name)
	})

	t.Run("duplicate phone conflicts", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/companies", `{"name":"Other","phone":"9876543210"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("missing phone rejected", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/companies", `{"name":"NoPhone"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("search inactive below two characters", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/companies/search?q=a")
		require.NoError(t, err)
		body := decode[searchResponse](t, resp)
		assert.False(t, body.Active)
		assert.Empty(t, body.Results)
	})

	t.Run("search matches phone substring", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/companies/search?q=98")
		require.NoError(t, err)
		body := decode[searchResponse](t, resp)
		require.True(t, body.Active)
		require.Len(t, body.Results, 1)
		assert.Equal(t, "Acme", body.Results[0].Name)
	})

	t.Run("get unknown id", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/companies/123456")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestQuotationRoutes(t *testing.T) {
	srv := newTestServer(t)

	var created models.Quotation

	t.Run("create derives amounts", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/quotations", `{
			"quotationNumber": "REF-9",
			"date": "2026-09-01",
			"partyName": "Acme",
			"items": [{"item":"Widget","quantity":2,"price":10,"discount":0,"taxRate":10}]
		}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		created = decode[models.Quotation](t, resp)
		assert.Equal(t, models.StatusPending, created.Status)
		assert.InDelta(t, 22.00, created.Total, 0.001)
	})

	t.Run("invalid item rejected and ledger unchanged", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/quotations", `{
			"date": "2026-09-01",
			"items": [{"item":"","quantity":1,"price":5}]
		}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		listResp, err := http.Get(srv.URL + "/api/quotations")
		require.NoError(t, err)
		list := decode[[]models.Quotation](t, listResp)
		assert.Len(t, list, 1)
	})

	t.Run("status update", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPut,
			srv.URL+"/api/quotations/"+formatID(created.ID)+"/status",
			strings.NewReader(`{"status":"Completed"}`))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)

		updated := decode[models.Quotation](t, resp)
		assert.Equal(t, models.StatusCompleted, updated.Status)
	})

	t.Run("pdf renders", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/quotations/" + formatID(created.ID) + "/pdf")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

		head := make([]byte, 4)
		_, err = resp.Body.Read(head)
		require.NoError(t, err)
		assert.Equal(t, "%PDF", string(head))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/quotations/"+formatID(created.ID), nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}

		listResp, err := http.Get(srv.URL + "/api/quotations")
		require.NoError(t, err)
		list := decode[[]models.Quotation](t, listResp)
		assert.Empty(t, list)
	})
}

func TestFileRoutes(t *testing.T) {
	srv := newTestServer(t)

	uploadPDF := func(t *testing.T, field, filename, contentType string) *http.Response {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 test"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		resp, err := http.Post(srv.URL+"/api/upload-pdf", mw.FormDataContentType(), &buf)
		require.NoError(t, err)
		return resp
	}

	t.Run("upload and download round trip", func(t *testing.T) {
		resp := uploadPDF(t, "pdf", "quote.pdf", "application/pdf")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[map[string]any](t, resp)
		assert.Equal(t, true, body["success"])
		filename, _ := body["filename"].(string)
		require.NotEmpty(t, filename)
		assert.Contains(t, body["url"], "/uploads/pdfs/")

		dlResp, err := http.Get(srv.URL + "/api/download-pdf/" + filename)
		require.NoError(t, err)
		defer dlResp.Body.Close()
		assert.Equal(t, http.StatusOK, dlResp.StatusCode)
		assert.Equal(t, "application/pdf", dlResp.Header.Get("Content-Type"))

		// The blob is also served statically.
		staticResp, err := http.Get(srv.URL + "/uploads/pdfs/" + filename)
		require.NoError(t, err)
		defer staticResp.Body.Close()
		assert.Equal(t, http.StatusOK, staticResp.StatusCode)
	})

	t.Run("missing file field", func(t *testing.T) {
		resp := uploadPDF(t, "document", "quote.pdf", "application/pdf")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong content type", func(t *testing.T) {
		resp := uploadPDF(t, "pdf", "image.png", "image/png")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("download absent blob", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/download-pdf/nope.pdf")
		require.NoError(t, err)
		body := decode[map[string]string](t, resp)
		assert.Equal(t, "PDF file not found", body["error"])
	})
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
