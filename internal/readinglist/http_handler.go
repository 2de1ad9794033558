package readinglist

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"booky/internal/httpx"
)

type HTTPHandler struct {
	store *Store
}

func NewHTTPHandler(store *Store) *HTTPHandler {
	return &HTTPHandler{store: store}
}

type addEntryReq struct {
	Key            string   `json:"key" validate:"required,olkey"`
	Title          string   `json:"title" validate:"required,max=500"`
	Published      int      `json:"published"`
	Pages          *int     `json:"pages"`
	RatingsAverage *float64 `json:"ratingsAverage"`
	UserRating     int      `json:"userRating" validate:"required,gte=1,lte=5"`
	CoverID        int      `json:"cover_i"`
}

// List handles GET /v1/read
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.store.All()
	httpx.JSONSuccess(w, r, entries, map[string]any{
		"total": len(entries),
	})
}

// Add handles POST /v1/read
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addEntryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	entry := Entry(req)
	if err := h.store.Append(r.Context(), entry); err != nil {
		log.Printf("read list append failed key=%s error=%v", entry.Key, err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, entry)
}

// Remove handles DELETE /v1/read/{key...}
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Key is required", nil)
		return
	}
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}

	if _, err := h.store.Remove(r.Context(), key); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not in read list", nil)
			return
		}
		log.Printf("read list remove failed key=%s error=%v", key, err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessNoContent(w)
}

// Summary handles GET /v1/read/summary
func (h *HTTPHandler) Summary(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, Aggregate(h.store.All()).View(), nil)
}
