package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booky/internal/catalog"
	"booky/internal/config"
	apphttp "booky/internal/http"
	"booky/internal/platform/openlibrary"
	"booky/internal/readinglist"
	"booky/internal/store"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func newRouter(t *testing.T, pinger apphttp.Pinger) http.Handler {
	t.Helper()
	ol := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search.json":
			_, _ = w.Write([]byte(`{"numFound":1,"docs":[{"key":"/works/OL1W","title":"Dune","first_publish_year":1965}]}`))
		case "/works/OL1W.json":
			_, _ = w.Write([]byte(`{"key":"/works/OL1W","title":"Dune","description":"Arrakis."}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ol.Close)

	slots := store.NewSlotMemory()
	rl, err := readinglist.Open(context.Background(), slots)
	require.NoError(t, err)
	if pinger == nil {
		pinger = slots
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return apphttp.NewRouter(ctx, apphttp.RouterDeps{
		Catalog:  catalog.NewService(openlibrary.NewClient(openlibrary.Config{BaseURL: ol.URL})),
		ReadList: rl,
		Store:    pinger,
		HTTP:     config.Default().HTTP,
	})
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Probes(t *testing.T) {
	h := newRouter(t, nil)

	w := do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", w.Body.String())

	w = do(newRouter(t, failingPinger{}), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_CatalogRoutes(t *testing.T) {
	h := newRouter(t, nil)

	w := do(h, http.MethodGet, "/v1/search?q=dune", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Dune"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = do(h, http.MethodGet, "/v1/works/OL1W", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"description":"Arrakis."`)
	assert.Contains(t, w.Body.String(), `"first_publish_year":1965`)
}

func TestRouter_ReadListFlow(t *testing.T) {
	h := newRouter(t, nil)

	w := do(h, http.MethodPost, "/v1/read", `{"key":"/works/OL1W","title":"Dune","pages":300,"ratingsAverage":4.2,"userRating":4}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(h, http.MethodGet, "/v1/read/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"books":1`)
	assert.Contains(t, w.Body.String(), `"avg_rating_text":"4.2"`)

	w = do(h, http.MethodDelete, "/v1/read/works/OL1W", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(h, http.MethodDelete, "/v1/read/works/OL1W", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	w := do(newRouter(t, nil), http.MethodGet, "/v2/nothing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)
}
