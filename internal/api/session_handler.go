package api

import (
	"net/http"

	"github.com/mockmate/backend/internal/domain/interview"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionRequest struct {
	Role      string `json:"role" validate:"required"`
	Level     string `json:"level" validate:"required"`
	SessionID string `json:"session_id,omitempty"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Level     string `json:"level"`
	State     string `json:"state"`
}

type SubmitAnswerRequest struct {
	Question string `json:"question_text" validate:"required"`
	Type     string `json:"question_type" validate:"omitempty,oneof=open mcq general"`
	Answer   string `json:"answer_text" validate:"required"`
}

type SubmitAnswerResponse struct {
	Status        string `json:"status"`
	AnswerCount   int    `json:"answer_count"`
	Transcription string `json:"transcription,omitempty"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /sessions
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	id, err := h.sessions.Create(req.Role, req.Level, req.SessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CreateSessionResponse{
		SessionID: id,
		Role:      req.Role,
		Level:     req.Level,
		State:     string(interview.StateOpen),
	})
}

// GET /sessions/{sessionID}
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(r.PathValue("sessionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

// POST /sessions/{sessionID}/answers
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	var req SubmitAnswerRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Type == "" {
		req.Type = interview.TypeGeneral
	}

	answer := interview.Answer{
		Question: req.Question,
		Type:     req.Type,
		Text:     req.Answer,
	}
	if err := h.sessions.AppendAnswer(sessionID, answer); err != nil {
		h.writeError(w, err)
		return
	}

	answers, err := h.sessions.Answers(sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		Status:      "accepted",
		AnswerCount: len(answers),
	})
}

// POST /sessions/{sessionID}/answers/audio
//
// Multipart form: "question" and optional "type" fields plus an "audio" file
// part. The file is transcribed and the transcription stored as the answer
// text.
func (h *Handler) submitAudioAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	if h.transcriber == nil {
		respondError(w, http.StatusServiceUnavailable, "transcription_unavailable", "no transcription service configured")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid multipart form")
		return
	}

	question := r.FormValue("question")
	if question == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "question is required")
		return
	}
	answerType := r.FormValue("type")
	if answerType == "" {
		answerType = interview.TypeGeneral
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "audio file is required")
		return
	}
	defer file.Close()

	// Session must exist before the transcription call is paid for.
	if _, err := h.sessions.Get(sessionID); err != nil {
		h.writeError(w, err)
		return
	}

	text, err := h.transcriber.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		h.writeError(w, err)
		return
	}

	answer := interview.Answer{
		Question: question,
		Type:     answerType,
		Text:     text,
	}
	if err := h.sessions.AppendAnswer(sessionID, answer); err != nil {
		h.writeError(w, err)
		return
	}

	answers, err := h.sessions.Answers(sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		Status:        "accepted",
		AnswerCount:   len(answers),
		Transcription: text,
	})
}

// POST /sessions/{sessionID}/evaluate
func (h *Handler) evaluateSession(w http.ResponseWriter, r *http.Request) {
	report, err := h.evaluation.Evaluate(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// GET /sessions/{sessionID}/report
func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusServiceUnavailable, "archive_unavailable", "no report archive configured")
		return
	}

	report, err := h.archive.GetReport(r.PathValue("sessionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
