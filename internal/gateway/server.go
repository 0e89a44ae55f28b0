package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// buildRouter constructs the chi mux with all routes wired.
//
// A wrong method on a known route is reported as 400 with the JSON
// envelope, matching the single-endpoint contract the clients expect.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(g.observe)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusBadRequest, "method not allowed")
	})

	r.Get("/health", g.handleHealth())
	r.Handle("/metrics", g.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", g.handleChat())
		r.Post("/conversations", g.handleConversations())
		r.Get("/personas", g.handleListPersonas())
		r.Post("/personas/experience", g.handleAppendExperience())
	})

	return r
}

// observe tags each request with an ID, logs it, and feeds the request
// counter once the handler returns.
func (g *Gateway) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		g.metrics.RecordRequest(route, ww.Status())
		g.logger.Info("request",
			"id", requestID,
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"elapsed", time.Since(start),
		)
	})
}
