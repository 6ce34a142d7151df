package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"juniordebug/internal/analysis"
	"juniordebug/internal/keystore"
	"juniordebug/internal/llm"
	"juniordebug/pkg/models"
)

// handleAnalyze runs the full pipeline for one request: decode, resolve the
// task, build the prompt, dispatch to a provider, and return the normalized
// result.
func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxRequestBytes)

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, ok := resolveRequestTask(req)
	if !ok {
		writeError(w, http.StatusBadRequest,
			"Invalid or missing task. Provide a task id or task_description.")
		return
	}
	if !models.KnownLanguage(req.Language) {
		writeError(w, http.StatusBadRequest, "unsupported language")
		return
	}

	prompt := analysis.BuildPrompt(req.Code, task, req.Language)

	// A stored per-user key takes priority; anonymous callers (or users
	// without a stored key) fall through to the backend default inside the
	// dispatcher, exactly once per request.
	var credential, userID string
	if uid, authed := a.userID(r); authed {
		userID = uid
		key, err := a.store.APIKeyForUser(r.Context(), uid)
		switch {
		case err == nil:
			credential = key
		case errors.Is(err, keystore.ErrNoKey):
			// Authenticated but keyless: same path as anonymous.
		default:
			slog.Warn("stored key lookup failed", "user", uid, "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.cfg.RequestTimeout)
	defer cancel()

	result, err := a.dispatcher.Analyze(ctx, prompt, req.Model, credential)
	if err != nil {
		a.writeDispatchError(w, err)
		return
	}

	go a.meter.RecordAnalysis(userID, req.Model)
	writeJSON(w, http.StatusOK, result)
}

// resolveRequestTask prefers the explicit task id and falls back to mapping
// the human-readable description.
func resolveRequestTask(req models.AnalyzeRequest) (analysis.Task, bool) {
	if req.Task != "" {
		t := analysis.Task(req.Task)
		return t, t.Known()
	}
	if req.TaskDescription != "" {
		return analysis.ResolveTask(req.TaskDescription)
	}
	return "", false
}

// writeDispatchError maps the dispatcher's failure taxonomy onto status
// codes with generic, non-sensitive bodies. Details stay in the server log.
func (a *App) writeDispatchError(w http.ResponseWriter, err error) {
	slog.Error("analysis dispatch failed", "error", err)

	switch {
	case errors.Is(err, llm.ErrUnsupportedModel):
		writeError(w, http.StatusBadRequest, "unsupported model")
	case errors.Is(err, llm.ErrNoCredential):
		writeError(w, http.StatusServiceUnavailable,
			"No API key is configured for the requested provider.")
	case errors.Is(err, llm.ErrQuotaExceeded):
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests,
			"AI provider quota exceeded: please try again later or rotate your key")
	case errors.Is(err, llm.ErrCredentialRejected):
		writeError(w, http.StatusForbidden,
			"AI provider key invalid or reported as leaked. Please rotate the key.")
	default:
		writeError(w, http.StatusBadGateway, "AI provider error")
	}
}
