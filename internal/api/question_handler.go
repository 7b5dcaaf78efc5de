package api

import (
	"net/http"

	"github.com/mockmate/backend/internal/domain/questionset"
	"github.com/mockmate/backend/internal/generator"
)

// ── Request / Response types ────────────────────────────────────────────────

type GenerateQuestionsRequest struct {
	Tier           string `json:"tier" validate:"required"`
	ProfileText    string `json:"profile_text"`
	ProfileURL     string `json:"profile_url" validate:"omitempty,url"`
	JobDescription string `json:"jd_text"`
	JobDescURL     string `json:"jd_url" validate:"omitempty,url"`
	Context        string `json:"context"`
	Duration       int    `json:"duration" validate:"required"`
	Difficulty     string `json:"difficulty" validate:"required"`
}

type GenerateQuestionsResponse struct {
	QuestionSetID string                `json:"question_set_id,omitempty"`
	Tier          string                `json:"tier"`
	Difficulty    string                `json:"difficulty"`
	Duration      int                   `json:"duration"`
	OpenQuestions []string              `json:"open_questions"`
	MCQ           []questionset.MCQItem `json:"mcq"`
}

type TiersResponse struct {
	Tiers        map[generator.Tier]generator.TierInfo `json:"tiers"`
	Durations    []int                                 `json:"durations"`
	Difficulties []generator.Difficulty                `json:"difficulties"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /questions:generate
func (h *Handler) generateQuestions(w http.ResponseWriter, r *http.Request) {
	var req GenerateQuestionsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	profile, jd := req.ProfileText, req.JobDescription
	if req.ProfileURL != "" || req.JobDescURL != "" {
		if h.extractor == nil {
			respondError(w, http.StatusServiceUnavailable, "extraction_unavailable", "no text extraction service configured")
			return
		}
		fetchedProfile, fetchedJD, err := h.extractor.Pair(r.Context(), req.ProfileURL, req.JobDescURL)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if fetchedProfile != "" {
			profile = fetchedProfile
		}
		if fetchedJD != "" {
			jd = fetchedJD
		}
	}

	set, err := h.generator.Generate(r.Context(), generator.Request{
		Tier:           generator.Tier(req.Tier),
		Profile:        profile,
		JobDescription: jd,
		Context:        req.Context,
		Duration:       req.Duration,
		Difficulty:     generator.Difficulty(req.Difficulty),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := GenerateQuestionsResponse{
		Tier:          req.Tier,
		Difficulty:    req.Difficulty,
		Duration:      req.Duration,
		OpenQuestions: set.OpenQuestions,
		MCQ:           set.MCQ,
	}

	if h.archive != nil {
		setID, err := h.archive.SaveQuestionSet(req.Tier, req.Difficulty, req.Duration, set)
		if err != nil {
			h.logger.Error("failed to archive question set", "error", err)
		} else {
			resp.QuestionSetID = setID
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// GET /questions/{setID}
func (h *Handler) getQuestionSet(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusServiceUnavailable, "archive_unavailable", "no question set archive configured")
		return
	}

	set, err := h.archive.GetQuestionSet(r.PathValue("setID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, set)
}

// GET /tiers
func (h *Handler) listTiers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, TiersResponse{
		Tiers:        generator.Tiers(),
		Durations:    generator.Durations(),
		Difficulties: generator.Difficulties(),
	})
}
