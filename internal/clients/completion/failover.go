package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FailoverGenerator tries each generator in order and returns the first success.
type FailoverGenerator struct {
	generators     []Generator
	attemptTimeout time.Duration
}

var _ Generator = (*FailoverGenerator)(nil)

// NewFailoverGenerator creates a failover chain. At least one generator is required.
// Each attempt is bounded by attemptTimeout; zero leaves only the caller's deadline.
func NewFailoverGenerator(attemptTimeout time.Duration, generators ...Generator) (*FailoverGenerator, error) {
	if len(generators) == 0 {
		return nil, errors.New("failover requires at least one generator")
	}
	return &FailoverGenerator{
		generators:     generators,
		attemptTimeout: attemptTimeout,
	}, nil
}

func (f *FailoverGenerator) Name() string {
	names := make([]string, len(f.generators))
	for i, g := range f.generators {
		names[i] = g.Name()
	}
	return strings.Join(names, ",")
}

// Generate returns the error of the last generator when every generator fails.
func (f *FailoverGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for i, g := range f.generators {
		out, err := f.attempt(ctx, g, prompt)
		if err == nil {
			if i > 0 {
				zerolog.Ctx(ctx).Info().Str("backend", g.Name()).Int("attempt", i+1).Msg("Used fallback completion backend")
			}
			return out, nil
		}
		lastErr = err
		zerolog.Ctx(ctx).Warn().Err(err).Str("backend", g.Name()).Int("attempt", i+1).Msg("Completion backend failed")
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("all completion backends failed: %w", lastErr)
}

func (f *FailoverGenerator) attempt(ctx context.Context, g Generator, prompt string) (string, error) {
	if f.attemptTimeout <= 0 {
		return g.Generate(ctx, prompt)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, f.attemptTimeout)
	defer cancel()
	return g.Generate(attemptCtx, prompt)
}
