package http

import (
	"context"
	"net/http"
	"time"

	"booky/internal/catalog"
	"booky/internal/config"
	"booky/internal/httpx"
	"booky/internal/readinglist"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDeps struct {
	Catalog  *catalog.Service
	ReadList *readinglist.Store
	Store    Pinger
	HTTP     config.HTTPConfig
}

// NewRouter registers the /v1 API and the probes and wraps them in the
// middleware chain. ctx bounds the rate limiter janitor.
func NewRouter(ctx context.Context, deps RouterDeps) http.Handler {
	catalogHandler := catalog.NewHTTPHandler(deps.Catalog)
	readListHandler := readinglist.NewHTTPHandler(deps.ReadList)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := deps.Store.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /v1/search", catalogHandler.Search)
	router.HandleFunc("GET /v1/works/{id}", catalogHandler.GetWork)

	router.HandleFunc("GET /v1/read", readListHandler.List)
	router.HandleFunc("POST /v1/read", readListHandler.Add)
	router.HandleFunc("GET /v1/read/summary", readListHandler.Summary)
	router.HandleFunc("DELETE /v1/read/{key...}", readListHandler.Remove)

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})

	mws := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(deps.HTTP.EnableHSTS),
		httpx.CORSMiddleware(deps.HTTP.CORSOrigins),
		httpx.RequestSizeLimitMiddleware(deps.HTTP.MaxBodyBytes),
	}
	if deps.HTTP.RateLimitRPS > 0 {
		mws = append(mws, httpx.NewRateLimitMiddleware(ctx, deps.HTTP.RateLimitRPS, deps.HTTP.RateLimitBurst).Middleware)
	}
	return httpx.Chain(router, mws...)
}
