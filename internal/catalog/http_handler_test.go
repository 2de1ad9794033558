package catalog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"booky/internal/platform/openlibrary"
)

func TestHTTPHandler_Search(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, client := newTestService(t)
		handler := NewHTTPHandler(svc)
		client.EXPECT().SearchBooks(gomock.Any(), "dune", SearchLimit).Return(&openlibrary.SearchResponse{
			Docs: []openlibrary.SearchDoc{{Key: "/works/OL1W", Title: "Dune"}},
		}, nil)

		w := httptest.NewRecorder()
		handler.Search(w, httptest.NewRequest(http.MethodGet, "/v1/search?q=dune", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":1`)
	})

	t.Run("lookup failure is an empty result", func(t *testing.T) {
		svc, client := newTestService(t)
		handler := NewHTTPHandler(svc)
		client.EXPECT().SearchBooks(gomock.Any(), "dune", SearchLimit).Return(nil, errors.New("dns"))

		w := httptest.NewRecorder()
		handler.Search(w, httptest.NewRequest(http.MethodGet, "/v1/search?q=dune", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":0`)
	})
}

func TestHTTPHandler_GetWork(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, client := newTestService(t)
		handler := NewHTTPHandler(svc)
		client.EXPECT().GetWork(gomock.Any(), "/works/OL1W").Return(&openlibrary.Work{Key: "/works/OL1W", Title: "Dune"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/works/OL1W", nil)
		r.SetPathValue("id", "OL1W")
		handler.GetWork(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"Dune"`)
	})

	t.Run("lookup failed", func(t *testing.T) {
		svc, client := newTestService(t)
		handler := NewHTTPHandler(svc)
		client.EXPECT().GetWork(gomock.Any(), "/works/OL1W").Return(nil, errors.New("503"))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/works/OL1W", nil)
		r.SetPathValue("id", "OL1W")
		handler.GetWork(w, r)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("missing id", func(t *testing.T) {
		svc, _ := newTestService(t)
		handler := NewHTTPHandler(svc)

		w := httptest.NewRecorder()
		handler.GetWork(w, httptest.NewRequest(http.MethodGet, "/v1/works/", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
