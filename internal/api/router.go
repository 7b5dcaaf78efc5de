// internal/api/router.go
package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Sessions
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{sessionID}", h.getSession)
	mux.HandleFunc("POST /sessions/{sessionID}/answers", h.submitAnswer)
	mux.HandleFunc("POST /sessions/{sessionID}/answers/audio", h.submitAudioAnswer)
	mux.HandleFunc("POST /sessions/{sessionID}/evaluate", h.evaluateSession)
	mux.HandleFunc("GET /sessions/{sessionID}/report", h.getReport)

	// Question generation
	mux.HandleFunc("POST /questions:generate", h.generateQuestions)
	mux.HandleFunc("GET /questions/{setID}", h.getQuestionSet)
	mux.HandleFunc("GET /tiers", h.listTiers)

	// Profile / JD matching
	mux.HandleFunc("POST /match", h.matchProfile)
}
