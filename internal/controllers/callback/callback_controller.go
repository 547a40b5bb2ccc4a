package callback

import (
	"context"

	"github.com/DIMO-Network/line-ai-relay/internal/clients/line"
	"github.com/DIMO-Network/line-ai-relay/internal/events"
	"github.com/DIMO-Network/line-ai-relay/internal/metrics"
	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type MessageRelay interface {
	HandleTextMessage(ctx context.Context, msg *events.TextMessage) (string, error)
}

// CallbackController receives webhook callbacks from the LINE platform.
type CallbackController struct {
	channelSecret string
	relay         MessageRelay
}

// NewCallbackController creates a new CallbackController.
func NewCallbackController(channelSecret string, relay MessageRelay) *CallbackController {
	return &CallbackController{
		channelSecret: channelSecret,
		relay:         relay,
	}
}

// HandleCallback godoc
// @Summary      Receive a webhook callback
// @Description  Verifies the X-Line-Signature header against the raw body, then answers every text message event with a model completion through the reply API. Other events are acknowledged and ignored.
// @Tags         Callback
// @Accept       json
// @Produce      plain
// @Param        X-Line-Signature  header  string  true  "Base64 HMAC-SHA256 of the body keyed by the channel secret"
// @Success      200  {string}  string  "OK"
// @Failure      400  "Invalid signature or request payload"
// @Router       /callback [post]
func (cc *CallbackController) HandleCallback(c *fiber.Ctx) error {
	body := c.Body()
	if !line.VerifySignature(cc.channelSecret, c.Get(line.SignatureHeader), body) {
		metrics.CallbacksTotal.WithLabelValues("invalid_signature").Inc()
		return richerrors.Error{
			ExternalMsg: "Invalid signature",
			Code:        fiber.StatusBadRequest,
		}
	}

	cb, err := line.ParseCallback(body)
	if err != nil {
		metrics.CallbacksTotal.WithLabelValues("invalid_payload").Inc()
		return richerrors.Error{
			ExternalMsg: "Invalid request payload",
			Err:         err,
			Code:        fiber.StatusBadRequest,
		}
	}
	metrics.CallbacksTotal.WithLabelValues("accepted").Inc()

	ctx := c.UserContext()
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("destination", cb.Destination).
		Int("text_messages", len(cb.Messages)).
		Int("ignored_events", cb.Ignored).
		Msg("Received callback")

	for i := range cb.Messages {
		msg := &cb.Messages[i]
		outcome, err := cc.relay.HandleTextMessage(ctx, msg)
		if err != nil {
			logger.Error().Err(err).Str("outcome", outcome).Str("message_id", msg.MessageID).Msg("Failed to relay message")
			continue
		}
		logger.Debug().Str("outcome", outcome).Str("message_id", msg.MessageID).Msg("Relayed event")
	}

	return c.SendString("OK")
}
