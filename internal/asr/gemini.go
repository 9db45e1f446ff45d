package asr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/nezhar/voicevault/internal/blob"
	"github.com/nezhar/voicevault/internal/config"
	"github.com/nezhar/voicevault/internal/logger"
)

const transcribePrompt = "Transcribe this recording verbatim. Return only the spoken text, without timestamps or speaker labels."

type implGemini struct {
	apiKey string
	model  string
	logger logger.Logger
}

func newGemini(cfg config.ASRConfig, log logger.Logger) *implGemini {
	return &implGemini{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		logger: log,
	}
}

func (g *implGemini) Name() string { return "gemini" }

// Transcribe sends the media inline to Gemini. Inline request bodies top out
// around 20MB, so the configured request ceiling must stay below that.
func (g *implGemini) Transcribe(ctx context.Context, localPath string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read media: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(transcribePrompt),
		genai.NewPartFromBytes(data, blob.ContentTypeForFile(localPath)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate transcript: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from gemini")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	return strings.TrimSpace(text.String()), nil
}
