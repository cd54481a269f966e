package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"proposalgen/internal/config"
	"proposalgen/internal/reqid"
)

// GroqClient transcribes audio through Groq's speech-to-text endpoint.
// One attempt per request, no retry; failures are fatal for the caller.
type GroqClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewGroqClient builds a client from the groq provider block.
func NewGroqClient(prov config.ProviderConfig) *GroqClient {
	baseURL := prov.BaseURL
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	model := prov.Model
	if model == "" {
		model = "distil-whisper-large-v3-en"
	}
	return &GroqClient{
		client:  &http.Client{Timeout: 2 * time.Minute},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  prov.APIKey,
		model:   model,
	}
}

// Transcribe uploads the audio file and returns its plain-text transcript.
// A missing file is a precondition failure reported before any network call.
func (c *GroqClient) Transcribe(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("audio file not found at %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}
	if err := mw.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	if err := mw.WriteField("response_format", "text"); err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	log.Printf("[transcribe %s] starting transcription for %s", reqid.From(ctx), filepath.Base(path))
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("transcription failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	log.Printf("[transcribe %s] transcription complete in %.2fs", reqid.From(ctx), time.Since(start).Seconds())
	return strings.TrimSpace(string(raw)), nil
}
