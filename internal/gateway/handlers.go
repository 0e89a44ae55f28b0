package gateway

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fbianco/proghelper/internal/chat"
	"github.com/fbianco/proghelper/internal/persona"
	"github.com/fbianco/proghelper/internal/prompt"
	"github.com/fbianco/proghelper/internal/provider"
)

// chatRequest is the POST /api/chat body.
type chatRequest struct {
	Message        string           `json:"message"`
	Local          string           `json:"local"`
	Size           string           `json:"size"`
	Verbosity      string           `json:"verbosity"`
	Lang           string           `json:"lang"`
	Character      string           `json:"character"`
	Topic          string           `json:"topic"`
	PersonaID      *int64           `json:"persona_id"`
	Snippets       []prompt.Snippet `json:"snippets"`
	ProjectContext string           `json:"project_context"`
}

// chatResponse is the POST /api/chat success body. Debug is present only
// when the gateway runs with debug enabled; it is diagnostic, not a
// stable contract surface.
type chatResponse struct {
	Response      string                        `json:"response"`
	Conversations map[string][]provider.Message `json:"conversations"`
	Debug         *debugEcho                    `json:"debug,omitempty"`
}

type debugEcho struct {
	System     string `json:"system"`
	FlatPrompt string `json:"flat_prompt"`
}

// handleChat serves POST /api/chat.
func (g *Gateway) handleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		local := strings.ToLower(strings.TrimSpace(req.Local))
		if local == "" {
			local = "ollama"
		}
		size := provider.Size(strings.ToLower(strings.TrimSpace(req.Size)))
		if size == "" {
			size = provider.SizeMedium
		}
		personaID := chat.DefaultPersonaID
		if req.PersonaID != nil {
			personaID = *req.PersonaID
		}

		start := time.Now()
		res, err := g.chatSvc.Handle(r.Context(), chat.Request{
			Message:        req.Message,
			Provider:       local,
			Size:           size,
			Verbosity:      provider.NormalizeVerbosity(req.Verbosity),
			Lang:           req.Lang,
			Character:      req.Character,
			Topic:          req.Topic,
			PersonaID:      personaID,
			Snippets:       req.Snippets,
			ProjectContext: req.ProjectContext,
		})
		if err != nil {
			g.metrics.RecordChat(local, "error", time.Since(start))
			writeError(w, statusFor(err), err.Error())
			return
		}

		outcome := "ok"
		if res.Reset {
			outcome = "reset"
		}
		g.metrics.RecordChat(local, outcome, time.Since(start))

		resp := chatResponse{
			Response:      res.Reply,
			Conversations: res.Conversations,
		}
		if resp.Conversations == nil {
			resp.Conversations = g.chatSvc.Conversations(r.Context(), req.Character)
		}
		if g.config.Debug && !res.Reset {
			resp.Debug = &debugEcho{System: res.System, FlatPrompt: res.FlatPrompt}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// conversationsRequest is the POST /api/conversations body.
type conversationsRequest struct {
	Character string `json:"character"`
}

// handleConversations serves POST /api/conversations: the character's
// current logs grouped by persona display name.
func (g *Gateway) handleConversations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req conversationsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"conversations": g.chatSvc.Conversations(r.Context(), req.Character),
		})
	}
}

// personaSummary is one row of the GET /api/personas listing.
type personaSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// handleListPersonas serves GET /api/personas. Restricted personas are
// hidden unless ?master=true.
func (g *Gateway) handleListPersonas() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.personas == nil {
			writeJSON(w, http.StatusOK, map[string]any{"personas": []personaSummary{}})
			return
		}

		master := r.URL.Query().Get("master") == "true"
		list, err := g.personas.List(r.Context(), master)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		out := make([]personaSummary, 0, len(list))
		for _, p := range list {
			out = append(out, personaSummary{ID: p.ID, Name: p.Name, Version: p.Version})
		}
		writeJSON(w, http.StatusOK, map[string]any{"personas": out})
	}
}

// experienceRequest is the POST /api/personas/experience body.
type experienceRequest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Text    string `json:"text"`
}

// handleAppendExperience serves POST /api/personas/experience.
func (g *Gateway) handleAppendExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req experienceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Text) == "" {
			writeError(w, http.StatusBadRequest, "name and text are required")
			return
		}
		if g.personas == nil {
			writeError(w, http.StatusNotFound, persona.ErrNotFound.Error())
			return
		}

		// An omitted version addresses the first revision of the persona.
		version := req.Version
		if version == "" {
			version = "1"
		}

		if err := g.personas.AppendExperience(r.Context(), req.Name, version, req.Text); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// writeJSON sends a JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
