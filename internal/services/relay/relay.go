package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/DIMO-Network/line-ai-relay/internal/clients/completion"
	"github.com/DIMO-Network/line-ai-relay/internal/events"
	"github.com/DIMO-Network/line-ai-relay/internal/metrics"
	"github.com/rs/zerolog"
)

type Completer interface {
	Complete(ctx context.Context, text string) completion.Result
}

type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

type Deduplicator interface {
	MarkSeen(eventID string) bool
}

type Filter interface {
	Allow(msg *events.TextMessage) (bool, error)
}

// Relay answers text message events with a model completion.
type Relay struct {
	completer Completer
	replier   Replier
	dedup     Deduplicator
	filter    Filter
}

// New creates a new Relay. dedup and filter are optional.
func New(completer Completer, replier Replier, dedup Deduplicator, filter Filter) *Relay {
	return &Relay{
		completer: completer,
		replier:   replier,
		dedup:     dedup,
		filter:    filter,
	}
}

// HandleTextMessage relays one event and returns its outcome.
// At most one reply is attempted per event; an error means that reply failed.
func (r *Relay) HandleTextMessage(ctx context.Context, msg *events.TextMessage) (string, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("message_id", msg.MessageID).
		Str("webhook_event_id", msg.WebhookEventID).
		Str("source_type", msg.Source.Type).
		Int64("event_timestamp", msg.Timestamp).
		Logger()

	if msg.ReplyToken == "" {
		logger.Debug().Msg("Skipping message without reply token")
		metrics.EventsTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return metrics.OutcomeSkipped, nil
	}

	if r.dedup != nil && !r.dedup.MarkSeen(msg.WebhookEventID) {
		logger.Info().Msg("Skipping redelivered event")
		metrics.EventsTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		return metrics.OutcomeDuplicate, nil
	}

	if r.filter != nil {
		allowed, err := r.filter.Allow(msg)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to evaluate relay condition, skipping message")
		}
		if err != nil || !allowed {
			metrics.EventsTotal.WithLabelValues(metrics.OutcomeFiltered).Inc()
			return metrics.OutcomeFiltered, nil
		}
	}

	start := time.Now()
	result := r.completer.Complete(ctx, msg.Text)
	metrics.CompletionDuration.WithLabelValues(result.Backend).Observe(time.Since(start).Seconds())
	metrics.CompletionsTotal.WithLabelValues(result.Backend, string(result.Failure)).Inc()
	if !result.OK() {
		logger.Warn().Err(result.Err).
			Str("backend", result.Backend).
			Str("failure", string(result.Failure)).
			Msg("Completion failed, replying with fallback message")
	}

	if err := r.replier.Reply(ctx, msg.ReplyToken, result.Text); err != nil {
		metrics.EventsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return metrics.OutcomeFailed, fmt.Errorf("failed to reply to message %s: %w", msg.MessageID, err)
	}

	logger.Info().
		Dur("event_age", time.Since(time.UnixMilli(msg.Timestamp))).
		Int("text_length", len(msg.Text)).
		Int("reply_length", len(result.Text)).
		Bool("fallback", !result.OK()).
		Msg("Relayed message")
	metrics.EventsTotal.WithLabelValues(metrics.OutcomeReplied).Inc()
	return metrics.OutcomeReplied, nil
}
