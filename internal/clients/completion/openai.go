package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIGenerator generates replies with the OpenAI chat completion API.
type OpenAIGenerator struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates a new OpenAIGenerator. An empty baseURL keeps the SDK default.
func NewOpenAIGenerator(apiKey, baseURL, model, systemPrompt string, httpClient *http.Client) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIGenerator{
		client:       openai.NewClientWithConfig(cfg),
		model:        model,
		systemPrompt: systemPrompt,
	}
}

func (o *OpenAIGenerator) Name() string { return "openai" }

// Generate returns the content of the first choice.
func (o *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if o.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: o.systemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		return "", o.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Kind: FailureMalformed, Backend: o.Name(), Err: errors.New("no choices in chat completion response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIGenerator) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &GenerationError{Kind: FailureQuota, Backend: o.Name(), Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &GenerationError{Kind: FailureQuota, Backend: o.Name(), Err: err}
	}
	return fmt.Errorf("openai chat completion failed: %w", err)
}
