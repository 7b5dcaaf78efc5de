// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mockmate/backend/internal/generator"
	"github.com/mockmate/backend/internal/keypool"
	"github.com/mockmate/backend/internal/service"
	"github.com/mockmate/backend/internal/session"
	"github.com/mockmate/backend/internal/store"
	"github.com/mockmate/backend/internal/upstream"
)

// Transcriber converts an uploaded audio answer to text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Extractor fetches profile and job description URLs as plain text.
type Extractor interface {
	Pair(ctx context.Context, profileURL, jdURL string) (string, string, error)
}

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	sessions    *session.Store
	evaluation  *service.EvaluationService
	match       *service.MatchService
	generator   *generator.Generator
	archive     *store.SQLiteStore
	transcriber Transcriber
	extractor   Extractor
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewHandler creates a Handler with the given dependencies. archive,
// transcriber, and extractor may be nil; the endpoints needing them then
// report the feature as unavailable.
func NewHandler(sessions *session.Store, evaluation *service.EvaluationService, match *service.MatchService, gen *generator.Generator, archive *store.SQLiteStore, transcriber Transcriber, extractor Extractor, logger *slog.Logger) *Handler {
	return &Handler{
		sessions:    sessions,
		evaluation:  evaluation,
		match:       match,
		generator:   gen,
		archive:     archive,
		transcriber: transcriber,
		extractor:   extractor,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Code: code, Error: message})
}

// decodeJSON decodes the request body into v and validates struct tags.
// Writes a 400 and returns false on failure.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid json")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return false
	}
	return true
}

// writeError maps domain errors onto the HTTP error taxonomy. Every handler
// funnels its failures through here so the mapping lives in one place.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var upstreamErr *upstream.Error

	switch {
	case errors.Is(err, session.ErrNotFound):
		respondError(w, http.StatusNotFound, "session_not_found", "session not found")
	case errors.Is(err, session.ErrExists):
		respondError(w, http.StatusConflict, "session_exists", "session id already in use")
	case errors.Is(err, service.ErrNoAnswers):
		respondError(w, http.StatusBadRequest, "no_answers_submitted", "session has no answers to evaluate")
	case errors.Is(err, generator.ErrMissingJobDescription):
		respondError(w, http.StatusBadRequest, "missing_job_description", err.Error())
	case errors.Is(err, generator.ErrInvalidRequest):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, keypool.ErrExhausted):
		respondError(w, http.StatusServiceUnavailable, "rate_limit_exhausted", "all API keys are rate limited, retry later")
	case errors.As(err, &upstreamErr):
		h.logger.Error("upstream failure", "service", upstreamErr.Service, "error", err)
		respondError(w, http.StatusBadGateway, "upstream_error", upstreamErr.Error())
	default:
		h.logger.Error("internal error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
