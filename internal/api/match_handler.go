package api

import "net/http"

type MatchRequest struct {
	ProfileText string `json:"profile_text"`
	ProfileURL  string `json:"profile_url" validate:"omitempty,url"`
	JobDesc     string `json:"jd_text"`
	JobDescURL  string `json:"jd_url" validate:"omitempty,url"`
}

type MatchResponse struct {
	MatchPercentage float64 `json:"match_percentage"`
}

// POST /match
func (h *Handler) matchProfile(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	profile, jd := req.ProfileText, req.JobDesc
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

	if profile == "" || jd == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "both profile and job description are required")
		return
	}

	pct, err := h.match.Match(r.Context(), profile, jd)
	if err != nil {
		h.writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, MatchResponse{MatchPercentage: pct})
}
