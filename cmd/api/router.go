package main

import (
	"context"
	"log/slog"
	"net/http"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
)

// newRouter wires the book routes, probes and middleware stack.
// ctx bounds the lifetime of the rate limiter janitor.
func newRouter(ctx context.Context, cfg *config.Config, logger *slog.Logger, svc *book.Service) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.Count(r.Context())
		if err != nil {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "store not ready")
			return
		}
		httpx.JSONSuccess(w, http.StatusOK, "", map[string]int{"books": n})
	})

	book.NewHTTPHandler(svc, logger).Routes(router)

	middlewares := []httpx.Middleware{
		httpx.RequestIDMiddleware(logger),
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.AllowedOrigins),
	}
	if cfg.RateLimitRPS > 0 {
		middlewares = append(middlewares, httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware)
	}
	middlewares = append(middlewares, httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes))

	return httpx.Chain(router, middlewares...)
}
