package jobs

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/quipper/poc/housejobs/internal/roster"
	"github.com/quipper/poc/housejobs/pkg/common/correlation"
	"github.com/quipper/poc/housejobs/pkg/common/logger"
	"github.com/quipper/poc/housejobs/pkg/platform/chat"
)

// Options are the settings the handler needs from configuration.
type Options struct {
	SigningSecret string
	Command       string
	AllowedUsers  []string
}

// Handler serves Slack callbacks. It carries everything a callback needs: the
// roster service (store + cache), the platform client and the token signer.
type Handler struct {
	roster        *roster.Service
	platform      chat.Platform
	tokens        *correlation.Signer
	signingSecret string
	command       string
	allowed       map[string]bool
}

// NewHandler constructs a Handler. Empty ids in opts.AllowedUsers are ignored.
func NewHandler(svc *roster.Service, platform chat.Platform, tokens *correlation.Signer, opts Options) *Handler {
	allowed := make(map[string]bool, len(opts.AllowedUsers))
	for _, id := range opts.AllowedUsers {
		if id != "" {
			allowed[id] = true
		}
	}
	return &Handler{
		roster:        svc,
		platform:      platform,
		tokens:        tokens,
		signingSecret: opts.SigningSecret,
		command:       opts.Command,
		allowed:       allowed,
	}
}

// Router returns a chi-based router for the Slack and health endpoints.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(logRequest)
	r.Get("/api/health", h.health)

	// Everything Slack sends is signed with the app's signing secret.
	r.Route("/slack", func(r chi.Router) {
		r.Use(h.verifySlackSignature)
		r.Post("/commands", h.slashCommand)
		r.Post("/interactions", h.interactions)
		r.Post("/events", h.events)
	})
	return r
}

func (h *Handler) authorized(userID string) bool {
	return userID != "" && h.allowed[userID]
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := h.roster.Health(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "unhealthy", "error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s -> %d in %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func respondEphemeral(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"response_type": "ephemeral", "text": text})
}
