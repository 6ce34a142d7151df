package app

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"juniordebug/internal/keystore"
	"juniordebug/pkg/utils"
)

// requireUser resolves the caller or writes a 401. Key management, unlike
// /analyze, has no anonymous mode.
func (a *App) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := a.userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid or missing Authorization header")
		return "", false
	}
	return userID, true
}

func (a *App) handleSaveAPIKey(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.APIKey == "" {
		writeError(w, http.StatusBadRequest, "Missing api_key in body")
		return
	}

	if err := a.store.SaveAPIKey(r.Context(), userID, body.APIKey); err != nil {
		slog.Error("failed to save API key", "user", userID, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to save API key")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"api_key": utils.MaskKey(body.APIKey),
	})
}

func (a *App) handleGetAPIKey(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	key, err := a.store.APIKeyForUser(r.Context(), userID)
	if errors.Is(err, keystore.ErrNoKey) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "no_key"})
		return
	}
	if err != nil {
		slog.Error("failed to read API key", "user", userID, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to read stored API key")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"api_key": utils.MaskKey(key),
	})
}

func (a *App) handleDeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	if err := a.store.DeleteAPIKey(r.Context(), userID); err != nil {
		slog.Error("failed to delete API key", "user", userID, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to delete stored API key")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTestAPIKey reports which provider family the stored key belongs to
// and, for OpenAI keys, whether the provider accepts it.
func (a *App) handleTestAPIKey(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	key, err := a.store.APIKeyForUser(r.Context(), userID)
	if errors.Is(err, keystore.ErrNoKey) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "no_key"})
		return
	}
	if err != nil {
		slog.Error("failed to read API key", "user", userID, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to read stored API key")
		return
	}

	provider := guessProvider(key)
	if provider == "" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "unknown_provider"})
		return
	}

	if provider == "OpenAI" && !a.probeOpenAIKey(r, key) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":   "error",
			"provider": provider,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"provider": provider,
	})
}

// guessProvider infers the provider family from the key's prefix. Best
// effort: key formats are provider conventions, not contracts.
func guessProvider(key string) string {
	switch {
	case strings.HasPrefix(key, "sk-ant-"):
		return "Anthropic"
	case strings.HasPrefix(key, "sk-"):
		return "OpenAI"
	case strings.HasPrefix(key, "AIza"), strings.HasPrefix(key, "ya29."):
		return "Gemini"
	}
	return ""
}

func (a *App) probeOpenAIKey(r *http.Request, key string) bool {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, a.openAIProbeURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
