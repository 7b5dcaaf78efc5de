// internal/transcribe/client.go
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/mockmate/backend/internal/upstream"
)

// Client talks to the external speech-to-text service. Audio answers are
// shipped as multipart uploads and come back as plain transcription text.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

type transcriptResponse struct {
	Transcription string `json:"transcription"`
}

// Transcribe uploads one audio file and returns its transcription.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", upstream.Errorf("stt", err, "build upload")
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", upstream.Errorf("stt", err, "read audio")
	}
	if err := mw.Close(); err != nil {
		return "", upstream.Errorf("stt", err, "build upload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-transcript", &buf)
	if err != nil {
		return "", upstream.Errorf("stt", err, "build request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", upstream.Errorf("stt", err, "call transcription service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", upstream.Errorf("stt", nil, "transcription service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", upstream.Errorf("stt", err, "decode transcription response")
	}
	if strings.TrimSpace(tr.Transcription) == "" {
		return "", upstream.Errorf("stt", nil, "empty transcription")
	}
	return tr.Transcription, nil
}
