// Package app wires the relay's HTTP surface: request decoding, CORS,
// authentication, and the mapping from the internal failure taxonomy onto
// status codes. Raw provider error text never reaches a client from here.
package app

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"juniordebug/internal/auth"
	"juniordebug/internal/billing"
	"juniordebug/internal/config"
	"juniordebug/internal/keystore"
	"juniordebug/internal/llm"
)

// App holds the relay's HTTP router and its collaborators.
type App struct {
	Router *http.ServeMux

	cfg        *config.Config
	verifier   *auth.Verifier
	store      keystore.Store
	dispatcher *llm.Dispatcher
	meter      *billing.Meter

	// openAIProbeURL is where /test-api-key probes OpenAI keys. Overridden
	// in tests.
	openAIProbeURL string
}

// New creates the application and registers its routes.
func New(cfg *config.Config, store keystore.Store, dispatcher *llm.Dispatcher, meter *billing.Meter) *App {
	a := &App{
		Router:         http.NewServeMux(),
		cfg:            cfg,
		verifier:       auth.NewVerifier(cfg.AuthJWTSecret, store),
		store:          store,
		dispatcher:     dispatcher,
		meter:          meter,
		openAIProbeURL: "https://api.openai.com/v1/models",
	}
	a.initializeRoutes()
	return a
}

func (a *App) initializeRoutes() {
	a.Router.HandleFunc("GET /{$}", a.handleRoot)
	a.Router.HandleFunc("GET /health", a.handleHealth)
	a.Router.HandleFunc("POST /analyze", a.handleAnalyze)
	a.Router.HandleFunc("POST /save-api-key", a.handleSaveAPIKey)
	a.Router.HandleFunc("GET /get-api-key", a.handleGetAPIKey)
	a.Router.HandleFunc("DELETE /delete-api-key", a.handleDeleteAPIKey)
	a.Router.HandleFunc("GET /test-api-key", a.handleTestAPIKey)
}

// Handler returns the router wrapped in the middleware chain.
func (a *App) Handler() http.Handler {
	var h http.Handler = a.Router
	h = withRecovery(h)
	h = withCORS(a.cfg.AllowedOrigins, h)
	h = withRequestID(h)
	return h
}

func (a *App) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "JuniorDebug API is running"})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// userID resolves the request's bearer token to a user id. The second
// return value is false for anonymous requests. With auth disabled every
// request maps to a fixed development user.
func (a *App) userID(r *http.Request) (string, bool) {
	if a.cfg.DisableAuth {
		return "local-dev", true
	}

	token, ok := auth.ParseBearer(r.Header.Get("Authorization"))
	if !ok {
		return "", false
	}
	userID, err := a.verifier.UserID(r.Context(), token)
	if err != nil {
		slog.Debug("bearer token rejected", "error", err)
		return "", false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("failed to encode response", "error", err)
	}
}

// writeError sends a client-safe error body. msg must never contain raw
// provider text, credentials, or internals.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
