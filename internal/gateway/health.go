package gateway

import (
	"net/http"
	"time"
)

// healthResponse is the JSON response for GET /health.
type healthResponse struct {
	Status        string   `json:"status"`
	Uptime        string   `json:"uptime"`
	Conversations int      `json:"conversations"`
	Providers     []string `json:"providers"`
}

// handleHealth serves GET /health.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:        "ok",
			Uptime:        time.Since(g.startedAt).Round(time.Second).String(),
			Conversations: g.chatSvc.Store().Len(),
			Providers:     g.providers.Names(),
		})
	}
}
