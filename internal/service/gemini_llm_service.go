package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/StudyBuddy/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// TextGenerator produces free text for a prompt using the named model.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

type geminiLLMService struct {
	client *genai.Client
}

func NewGeminiClient(cfg *config.Config) (*genai.Client, error) {
	if cfg.Gemini.ApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. AI generation will be non-functional.")
		return nil, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return client, nil
}

// NewGeminiLLMService accepts a nil client; every call then fails with ErrAIUnavailable.
func NewGeminiLLMService(client *genai.Client) TextGenerator {
	return &geminiLLMService{client: client}
}

func (s *geminiLLMService) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("gemini client not initialized: %w", ErrAIUnavailable)
	}

	resp, err := s.client.GenerativeModel(model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("model", model).Msg("Gemini API error")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Str("model", model).Msg("Gemini returned no candidates or parts in response.")
		return "", fmt.Errorf("gemini returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return sb.String(), nil
}
