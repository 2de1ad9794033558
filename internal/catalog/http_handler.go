package catalog

import (
	"net/http"
	"strings"

	"booky/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Search handles GET /v1/search?q=
// Failed lookups are indistinguishable from no matches.
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	books := h.svc.Search(r.Context(), q)

	httpx.JSONSuccess(w, r, books, map[string]any{
		"query": q,
		"count": len(books),
	})
}

// GetWork handles GET /v1/works/{id}
func (h *HTTPHandler) GetWork(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || strings.Contains(id, "/") {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Work id is required", nil)
		return
	}
	key := "/works/" + id

	detail, err := h.svc.Detail(r.Context(), key, h.svc.Recent(key))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadGateway, "LOOKUP_FAILED", "Book details are unavailable", nil)
		return
	}

	httpx.JSONSuccess(w, r, detail, nil)
}
