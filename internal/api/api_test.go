package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mockmate/backend/internal/generator"
	"github.com/mockmate/backend/internal/keypool"
	"github.com/mockmate/backend/internal/service"
	"github.com/mockmate/backend/internal/session"
	"github.com/mockmate/backend/internal/store"
)

// stubInvoker routes prompts to canned responses: scoring prompts get a
// scoring JSON, generation prompts get a question set, match prompts a
// percentage.
type stubInvoker struct {
	fn func(prompt string) (string, error)
}

func (s *stubInvoker) Generate(_ context.Context, _ string, prompt string) (string, error) {
	return s.fn(prompt)
}

func defaultInvoker(prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "interviewer evaluating"):
		return `{"score": 8, "feedback": "good answer", "topic": "general", "key_points_covered": ["x"], "key_points_missed": []}`, nil
	case strings.Contains(prompt, "open_questions"):
		return `{"open_questions": ["Describe your last project."],
            "mcq": [{"question": "Pick one", "options": ["a", "b", "c", "d", "e"]}]}`, nil
	case strings.Contains(prompt, "percentage match"):
		return "The match is 85%.", nil
	default:
		return "", fmt.Errorf("unexpected prompt")
	}
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(context.Context, string, io.Reader) (string, error) {
	return s.text, s.err
}

type stubExtractor struct{}

func (stubExtractor) Pair(_ context.Context, profileURL, jdURL string) (string, string, error) {
	var profile, jd string
	if profileURL != "" {
		profile = "fetched profile"
	}
	if jdURL != "" {
		jd = "fetched jd"
	}
	return profile, jd, nil
}

func newTestServer(t *testing.T, fn func(string) (string, error)) *httptest.Server {
	t.Helper()
	if fn == nil {
		fn = defaultInvoker
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	invoker := &stubInvoker{fn: fn}

	keys, err := keypool.New([]string{"key-1", "key-2"}, 1000, time.Minute, time.Millisecond)
	if err != nil {
		t.Fatalf("keypool: %v", err)
	}

	archive, err := store.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { archive.Close() })

	sessions := session.NewStore()
	evaluation := service.NewEvaluationService(sessions, keys, invoker, archive, logger)
	match := service.NewMatchService(keys, invoker, logger)
	gen := generator.New(keys, invoker, logger)

	h := NewHandler(sessions, evaluation, match, gen, archive, &stubTranscriber{text: "spoken answer text"}, stubExtractor{}, logger)

	mux := http.NewServeMux()
	RegisterRoutes(mux, h)

	srv := httptest.NewServer(Logging(logger)(CORS(mux)))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestInterviewFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := postJSON(t, srv.URL+"/sessions", `{"role": "sde", "level": "mid"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status %d", resp.StatusCode)
	}
	sessionID, _ := body["session_id"].(string)
	if sessionID == "" {
		t.Fatal("no session_id in response")
	}

	answers := []string{
		`{"question_text": "What is a goroutine?", "question_type": "open", "answer_text": "A lightweight thread managed by the runtime."}`,
		`{"question_text": "Pick the Go keyword", "question_type": "mcq", "answer_text": "defer"}`,
	}
	for i, a := range answers {
		resp, body := postJSON(t, srv.URL+"/sessions/"+sessionID+"/answers", a)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("submit answer %d: status %d", i, resp.StatusCode)
		}
		if got := body["answer_count"].(float64); int(got) != i+1 {
			t.Errorf("answer_count = %v, want %d", got, i+1)
		}
	}

	resp, report := postJSON(t, srv.URL+"/sessions/"+sessionID+"/evaluate", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("evaluate: status %d, body %v", resp.StatusCode, report)
	}
	if report["role"] != "sde" || report["level"] != "mid" {
		t.Errorf("role/level not echoed: %v %v", report["role"], report["level"])
	}
	items := report["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("want 2 items, got %d", len(items))
	}
	first := items[0].(map[string]any)
	if first["question"] != "What is a goroutine?" {
		t.Errorf("items out of submission order: %v", first["question"])
	}
	overall := report["overall_score"].(float64)
	if overall < 0 || overall > 10 {
		t.Errorf("overall_score out of range: %v", overall)
	}

	// Report was archived and is served back.
	getResp, err := http.Get(srv.URL + "/sessions/" + sessionID + "/report")
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("get report: status %d", getResp.StatusCode)
	}
}

func TestEvaluateUnknownSession(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := postJSON(t, srv.URL+"/sessions/does-not-exist/evaluate", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", resp.StatusCode)
	}
	if body["code"] != "session_not_found" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestEvaluateNoAnswers(t *testing.T) {
	srv := newTestServer(t, nil)

	_, created := postJSON(t, srv.URL+"/sessions", `{"role": "sde", "level": "mid"}`)
	sessionID := created["session_id"].(string)

	resp, body := postJSON(t, srv.URL+"/sessions/"+sessionID+"/evaluate", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	if body["code"] != "no_answers_submitted" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestCreateSessionValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := postJSON(t, srv.URL+"/sessions", `{"level": "mid"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	if body["code"] != "validation_error" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestGenerateQuestions(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := postJSON(t, srv.URL+"/questions:generate",
		`{"tier": "basic", "profile_text": "Go developer, 5 years", "duration": 30, "difficulty": "professional"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, body %v", resp.StatusCode, body)
	}
	if len(body["open_questions"].([]any)) != 1 || len(body["mcq"].([]any)) != 1 {
		t.Errorf("unexpected set: %v", body)
	}

	setID, _ := body["question_set_id"].(string)
	if setID == "" {
		t.Fatal("no question_set_id")
	}
	getResp, err := http.Get(srv.URL + "/questions/" + setID)
	if err != nil {
		t.Fatalf("get question set: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("get question set: status %d", getResp.StatusCode)
	}
}

func TestGenerateMissingJobDescription(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := postJSON(t, srv.URL+"/questions:generate",
		`{"tier": "contextual", "profile_text": "Go developer", "duration": 30, "difficulty": "novice"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	if body["code"] != "missing_job_description" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestGenerateUpstreamFailure(t *testing.T) {
	srv := newTestServer(t, func(string) (string, error) {
		return "", fmt.Errorf("model offline")
	})

	resp, body := postJSON(t, srv.URL+"/questions:generate",
		`{"tier": "basic", "profile_text": "Go developer", "duration": 30, "difficulty": "novice"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", resp.StatusCode)
	}
	if body["code"] != "upstream_error" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestAudioAnswer(t *testing.T) {
	srv := newTestServer(t, nil)

	_, created := postJSON(t, srv.URL+"/sessions", `{"role": "sde", "level": "mid"}`)
	sessionID := created["session_id"].(string)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("question", "Tell me about yourself")
	part, _ := mw.CreateFormFile("audio", "answer.wav")
	part.Write([]byte("fake-audio-bytes"))
	mw.Close()

	resp, err := http.Post(srv.URL+"/sessions/"+sessionID+"/answers/audio", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST audio: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var body SubmitAnswerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Transcription != "spoken answer text" || body.AnswerCount != 1 {
		t.Errorf("unexpected response: %+v", body)
	}
}

func TestMatch(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := postJSON(t, srv.URL+"/match",
		`{"profile_text": "Go developer", "jd_text": "Backend engineer role"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, body %v", resp.StatusCode, body)
	}
	if body["match_percentage"].(float64) != 85 {
		t.Errorf("match_percentage = %v", body["match_percentage"])
	}
}

func TestPoolExhaustionMapsTo503(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(nil, nil, nil, nil, nil, nil, nil, logger)

	rec := httptest.NewRecorder()
	h.writeError(rec, fmt.Errorf("acquire key: %w", keypool.ErrExhausted))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", rec.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "rate_limit_exhausted" {
		t.Errorf("code = %q", body.Code)
	}
}

func TestURLFieldsWithoutExtractor(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(nil, nil, nil, nil, nil, nil, nil, logger)
	mux := http.NewServeMux()
	RegisterRoutes(mux, h)

	requests := map[string]string{
		"/questions:generate": `{"tier": "basic", "profile_url": "http://resume.example/cv", "duration": 30, "difficulty": "novice"}`,
		"/match":              `{"profile_url": "http://resume.example/cv", "jd_text": "Backend role"}`,
	}
	for path, payload := range requests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status %d, want 503", path, rec.Code)
		}
		var body errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if body.Code != "extraction_unavailable" {
			t.Errorf("%s: code = %q", path, body.Code)
		}
	}
}

func TestListTiers(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/tiers")
	if err != nil {
		t.Fatalf("GET /tiers: %v", err)
	}
	defer resp.Body.Close()

	var body TiersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Tiers) != 3 || len(body.Durations) != 2 || len(body.Difficulties) != 4 {
		t.Errorf("unexpected tiers payload: %+v", body)
	}
}
