// Package httpserver assembles the chi router and the middleware chain for
// the scanner API.
package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rx-scanner/api/internal/handle"
	"rx-scanner/api/internal/metrics"
	"rx-scanner/api/internal/ratelimit"
)

type Options struct {
	Handle *handle.Handle

	// Limiter is optional; tests run without one.
	Limiter *ratelimit.Limiter
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(recoverJSON)
	r.Use(metrics.Middleware)
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/test", opts.Handle.Test)
	r.Post("/process_image", opts.Handle.ProcessImage)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
