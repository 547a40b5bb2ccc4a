package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// FailureKind classifies why a completion could not be produced.
type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureTimeout   FailureKind = "timeout"
	FailureQuota     FailureKind = "quota"
	FailureMalformed FailureKind = "malformed"
	FailureUpstream  FailureKind = "upstream"
)

// Generator produces a text completion for a prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationError is returned by generators when the failure kind is known.
type GenerationError struct {
	Kind    FailureKind
	Backend string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s %s failure: %v", e.Backend, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a completion. Text is always the text to send to the user.
type Result struct {
	Text    string
	Failure FailureKind
	Backend string
	Err     error
}

// OK reports whether Text came from the backend rather than the fallback.
func (r Result) OK() bool {
	return r.Failure == FailureNone
}

// Service turns generator output into reply text, substituting the fallback on any failure.
type Service struct {
	generator Generator
	fallback  string
	timeout   time.Duration
}

// NewService creates a new Service. A zero timeout leaves the caller's deadline in place.
func NewService(generator Generator, fallback string, timeout time.Duration) *Service {
	return &Service{
		generator: generator,
		fallback:  fallback,
		timeout:   timeout,
	}
}

// Complete asks the generator for a reply to text and trims it.
// Failures never escape; they are reported through Result.Failure.
func (s *Service) Complete(ctx context.Context, text string) Result {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	backend := s.generator.Name()
	out, err := s.generator.Generate(ctx, text)
	if err == nil {
		out = strings.TrimSpace(out)
		if out == "" {
			err = &GenerationError{Kind: FailureMalformed, Backend: backend, Err: errors.New("empty completion")}
		}
	}
	if err != nil {
		return Result{
			Text:    s.fallback,
			Failure: Classify(err),
			Backend: backend,
			Err:     err,
		}
	}
	return Result{Text: out, Backend: backend}
}

// Classify maps a generator error to a FailureKind.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return FailureMalformed
	}
	return FailureUpstream
}
