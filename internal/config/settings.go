package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultFallbackMessage is replied when the completion backend fails.
	DefaultFallbackMessage = "エラーが発生しました。もう一度試してください。"

	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// Settings contains the application config
type Settings struct {
	Port         int    `env:"PORT"`
	MonPort      int    `env:"MON_PORT"`
	EnablePprof  bool   `env:"ENABLE_PPROF"`
	LogLevel     string `env:"LOG_LEVEL"`
	ServiceName  string `env:"SERVICE_NAME"`
	CallbackPath string `env:"CALLBACK_PATH"`

	LineChannelAccessToken string        `env:"LINE_CHANNEL_ACCESS_TOKEN"`
	LineChannelSecret      string        `env:"LINE_CHANNEL_SECRET"`
	LineAPIEndpoint        string        `env:"LINE_API_ENDPOINT"`
	LineTimeout            time.Duration `env:"LINE_TIMEOUT"`

	CompletionBackends string        `env:"COMPLETION_BACKENDS"`
	CompletionTimeout  time.Duration `env:"COMPLETION_TIMEOUT"`
	// CompletionAttemptTimeout bounds each backend in a failover chain.
	CompletionAttemptTimeout time.Duration `env:"COMPLETION_ATTEMPT_TIMEOUT"`
	SystemPrompt       string        `env:"SYSTEM_PROMPT"`
	FallbackMessage    string        `env:"FALLBACK_MESSAGE"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`

	EventDedupTTL  time.Duration `env:"EVENT_DEDUP_TTL"`
	RelayCondition string        `env:"RELAY_CONDITION"`
}

// SetDefaults fills every unset optional field.
func (s *Settings) SetDefaults() {
	if s.Port == 0 {
		s.Port = 5000
	}
	if s.MonPort == 0 {
		s.MonPort = 8888
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.ServiceName == "" {
		s.ServiceName = "line-ai-relay"
	}
	if s.CallbackPath == "" {
		s.CallbackPath = "/callback"
	}
	if s.LineTimeout == 0 {
		s.LineTimeout = 10 * time.Second
	}
	if s.CompletionBackends == "" {
		s.CompletionBackends = BackendOpenAI
	}
	if s.CompletionTimeout == 0 {
		s.CompletionTimeout = 30 * time.Second
	}
	if s.FallbackMessage == "" {
		s.FallbackMessage = DefaultFallbackMessage
	}
	if s.OpenAIModel == "" {
		s.OpenAIModel = "gpt-3.5-turbo"
	}
	if s.GeminiModel == "" {
		s.GeminiModel = "gemini-2.0-flash"
	}
	if s.EventDedupTTL == 0 {
		s.EventDedupTTL = 10 * time.Minute
	}
}

// Backends returns the configured completion backends in failover order.
func (s *Settings) Backends() []string {
	var backends []string
	for _, name := range strings.Split(s.CompletionBackends, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			backends = append(backends, name)
		}
	}
	return backends
}

// AttemptTimeout is the time one completion backend gets before the next one is tried.
// Unless set explicitly, the completion timeout is split evenly across the backends.
func (s *Settings) AttemptTimeout() time.Duration {
	if s.CompletionAttemptTimeout > 0 {
		return s.CompletionAttemptTimeout
	}
	n := len(s.Backends())
	if n == 0 {
		return s.CompletionTimeout
	}
	return s.CompletionTimeout / time.Duration(n)
}

// Validate checks that the settings needed to serve callbacks are present.
func (s *Settings) Validate() error {
	var errs []error
	if s.LineChannelSecret == "" {
		errs = append(errs, errors.New("LINE_CHANNEL_SECRET is required"))
	}
	if s.LineChannelAccessToken == "" {
		errs = append(errs, errors.New("LINE_CHANNEL_ACCESS_TOKEN is required"))
	}
	if !strings.HasPrefix(s.CallbackPath, "/") {
		errs = append(errs, fmt.Errorf("CALLBACK_PATH must start with '/', got '%s'", s.CallbackPath))
	}
	if s.CompletionAttemptTimeout < 0 {
		errs = append(errs, errors.New("COMPLETION_ATTEMPT_TIMEOUT must not be negative"))
	}
	backends := s.Backends()
	if len(backends) == 0 {
		errs = append(errs, errors.New("COMPLETION_BACKENDS must name at least one backend"))
	}
	for _, backend := range backends {
		switch backend {
		case BackendOpenAI:
			if s.OpenAIAPIKey == "" {
				errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai backend"))
			}
		case BackendGemini:
			if s.GeminiAPIKey == "" {
				errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini backend"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown completion backend: %s", backend))
		}
	}
	return errors.Join(errs...)
}
