package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiGenerator generates replies with the Gemini generateContent API.
type GeminiGenerator struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new GeminiGenerator. An empty baseURL keeps the SDK default.
func NewGeminiGenerator(ctx context.Context, apiKey, baseURL, model, systemPrompt string, httpClient *http.Client) (*GeminiGenerator, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiGenerator{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
	}, nil
}

func (g *GeminiGenerator) Name() string { return "gemini" }

// Generate returns the concatenated text parts of the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var config *genai.GenerateContentConfig
	if g.systemPrompt != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{genai.NewPartFromText(g.systemPrompt)},
			},
		}
	}
	userContent := &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{userContent}, config)
	if err != nil {
		return "", g.wrapError(err)
	}
	if len(resp.Candidates) == 0 {
		return "", &GenerationError{Kind: FailureMalformed, Backend: g.Name(), Err: errors.New("no response candidates returned")}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &GenerationError{
			Kind:    FailureMalformed,
			Backend: g.Name(),
			Err:     fmt.Errorf("empty response content (finish reason %q)", candidate.FinishReason),
		}
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

func (g *GeminiGenerator) wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return &GenerationError{Kind: FailureQuota, Backend: g.Name(), Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code == http.StatusTooManyRequests {
		return &GenerationError{Kind: FailureQuota, Backend: g.Name(), Err: err}
	}
	return fmt.Errorf("gemini generate content failed: %w", err)
}
