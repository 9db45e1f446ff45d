package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nezhar/voicevault/internal/config"
	"github.com/nezhar/voicevault/internal/logger"
)

const groqEndpoint = "https://api.groq.com/openai/v1/audio/transcriptions"

type implGroq struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	logger   logger.Logger
}

func newGroq(cfg config.ASRConfig, log logger.Logger) *implGroq {
	return &implGroq{
		endpoint: groqEndpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		client:   &http.Client{Timeout: 10 * time.Minute},
		logger:   log,
	}
}

func (g *implGroq) Name() string { return "groq" }

type groqResponse struct {
	Text string `json:"text"`
}

// Transcribe posts the file to Groq's OpenAI-compatible transcription
// endpoint and returns the recognized text.
func (g *implGroq) Transcribe(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open media: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", g.model); err != nil {
		return "", err
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return "", err
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", fmt.Errorf("read media: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call groq: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		// The body text feeds error classification downstream.
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("groq http %d: %s", resp.StatusCode, string(b))
	}

	var parsed groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode groq response: %w", err)
	}

	return strings.TrimSpace(parsed.Text), nil
}
