package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/memehustle/backend/internal/prompts"
)

// GeneratorService produces meme captions and vibes through an
// OpenAI-compatible chat completion endpoint.
type GeneratorService struct {
	client   *resty.Client
	model    string
	apiKey   string
	endpoint string
}

// GeneratorConfig holds configuration for the generator service.
type GeneratorConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewGeneratorService creates a new generator service.
// Parameters:
//   - cfg: generator configuration including provider, model, and API key.
//
// Returns:
//   - *GeneratorService: initialized generation client wrapper.
func NewGeneratorService(cfg *GeneratorConfig) *GeneratorService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Set timeout to prevent hanging requests
	client.SetTimeout(60 * time.Second)

	// Default to OpenAI compatible endpoint if not specified
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	endpoint := baseURL + "/chat/completions"

	return &GeneratorService{
		client:   client,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
	}
}

// GetModel returns the model name being used.
// Parameters: none.
// Returns:
//   - string: model identifier.
func (s *GeneratorService) GetModel() string {
	return s.model
}

// OpenAI-compatible Chat Completion API request/response structures
type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateCaption generates a witty caption for a meme.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - title: meme title.
//   - tags: meme tags.
//
// Returns:
//   - string: generated caption text.
//   - error: non-nil if the API request fails.
func (s *GeneratorService) GenerateCaption(ctx context.Context, title string, tags []string) (string, error) {
	return s.complete(ctx, prompts.CaptionSystemPrompt, prompts.CaptionUserPrompt(title, tags), 120)
}

// GenerateVibe generates a short cyberpunk vibe phrase for a set of tags.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - tags: meme tags.
//
// Returns:
//   - string: generated vibe text.
//   - error: non-nil if the API request fails.
func (s *GeneratorService) GenerateVibe(ctx context.Context, tags []string) (string, error) {
	return s.complete(ctx, prompts.VibeSystemPrompt, prompts.VibeUserPrompt(tags), 30)
}

// complete sends a single chat completion request and returns the trimmed text.
func (s *GeneratorService) complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	req := openAIRequest{
		Model: s.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens: maxTokens,
	}

	var resp openAIResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return "", fmt.Errorf("failed to call generator API: %w", err)
	}

	// Check HTTP status code
	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		// Try to get error message from response body
		var errorMsg string
		if resp.Error != nil {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		} else {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return "", fmt.Errorf("generator API returned error: %s", errorMsg)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("generator API error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 {
		errorMsg := fmt.Sprintf("no choices in response (status: %d)", httpResp.StatusCode())
		if len(httpResp.Body()) > 0 {
			errorMsg += fmt.Sprintf(", response body: %s", string(httpResp.Body()))
		}
		return "", fmt.Errorf("no response from generator API: %s", errorMsg)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
