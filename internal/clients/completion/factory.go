package completion

import (
	"context"
	"fmt"
	"net/http"

	"github.com/DIMO-Network/line-ai-relay/internal/config"
)

// NewGenerator builds the generator chain named by settings.CompletionBackends.
func NewGenerator(ctx context.Context, settings *config.Settings) (Generator, error) {
	attemptTimeout := settings.AttemptTimeout()
	httpClient := &http.Client{Timeout: attemptTimeout}

	var generators []Generator
	for _, backend := range settings.Backends() {
		switch backend {
		case config.BackendOpenAI:
			generators = append(generators, NewOpenAIGenerator(
				settings.OpenAIAPIKey,
				settings.OpenAIBaseURL,
				settings.OpenAIModel,
				settings.SystemPrompt,
				httpClient,
			))
		case config.BackendGemini:
			gemini, err := NewGeminiGenerator(ctx,
				settings.GeminiAPIKey,
				settings.GeminiBaseURL,
				settings.GeminiModel,
				settings.SystemPrompt,
				httpClient,
			)
			if err != nil {
				return nil, err
			}
			generators = append(generators, gemini)
		default:
			return nil, fmt.Errorf("unknown completion backend: %s", backend)
		}
	}

	switch len(generators) {
	case 0:
		return nil, fmt.Errorf("no completion backend configured")
	case 1:
		return generators[0], nil
	default:
		return NewFailoverGenerator(attemptTimeout, generators...)
	}
}
