package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/DIMO-Network/line-ai-relay/internal/events"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// SignatureHeader carries the base64 HMAC-SHA256 of the raw callback body.
const SignatureHeader = "X-Line-Signature"

// Callback is a decoded webhook request reduced to the events the relay handles.
type Callback struct {
	// Destination is the bot user ID the callback was sent to.
	Destination string
	// Messages are the text message events in payload order.
	Messages []events.TextMessage
	// Ignored counts events that are not text messages.
	Ignored int
}

// VerifySignature reports whether signature is the channel secret HMAC of body.
func VerifySignature(channelSecret, signature string, body []byte) bool {
	if signature == "" || channelSecret == "" {
		return false
	}
	return webhook.ValidateSignature(channelSecret, signature, body)
}

// Sign computes the signature the platform attaches to body.
func Sign(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	_, _ = mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ParseCallback decodes a verified callback body and extracts its text message events.
func ParseCallback(body []byte) (*Callback, error) {
	var req webhook.CallbackRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("failed to decode callback request: %w", err)
	}

	cb := &Callback{Destination: req.Destination}
	for _, event := range req.Events {
		msg, ok := extractTextMessage(event)
		if !ok {
			cb.Ignored++
			continue
		}
		cb.Messages = append(cb.Messages, msg)
	}
	return cb, nil
}

func extractTextMessage(event webhook.EventInterface) (events.TextMessage, bool) {
	var msgEvent webhook.MessageEvent
	switch e := event.(type) {
	case webhook.MessageEvent:
		msgEvent = e
	case *webhook.MessageEvent:
		if e == nil {
			return events.TextMessage{}, false
		}
		msgEvent = *e
	default:
		return events.TextMessage{}, false
	}

	var content webhook.TextMessageContent
	switch m := msgEvent.Message.(type) {
	case webhook.TextMessageContent:
		content = m
	case *webhook.TextMessageContent:
		if m == nil {
			return events.TextMessage{}, false
		}
		content = *m
	default:
		return events.TextMessage{}, false
	}

	return events.TextMessage{
		ReplyToken:     msgEvent.ReplyToken,
		Text:           content.Text,
		MessageID:      content.Id,
		WebhookEventID: msgEvent.WebhookEventId,
		Source:         convertSource(msgEvent.Source),
		Timestamp:      msgEvent.Timestamp,
	}, true
}

func convertSource(source webhook.SourceInterface) events.Source {
	switch s := source.(type) {
	case webhook.UserSource:
		return events.Source{Type: events.SourceUser, UserID: s.UserId}
	case *webhook.UserSource:
		return events.Source{Type: events.SourceUser, UserID: s.UserId}
	case webhook.GroupSource:
		return events.Source{Type: events.SourceGroup, UserID: s.UserId, GroupID: s.GroupId}
	case *webhook.GroupSource:
		return events.Source{Type: events.SourceGroup, UserID: s.UserId, GroupID: s.GroupId}
	case webhook.RoomSource:
		return events.Source{Type: events.SourceRoom, UserID: s.UserId, RoomID: s.RoomId}
	case *webhook.RoomSource:
		return events.Source{Type: events.SourceRoom, UserID: s.UserId, RoomID: s.RoomId}
	default:
		return events.Source{}
	}
}
