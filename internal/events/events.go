// Package events holds the inbound message event relayed by the service.
package events

// Source types reported by the messaging platform.
const (
	SourceUser  = "user"
	SourceGroup = "group"
	SourceRoom  = "room"
)

// Source identifies the conversation an event came from.
type Source struct {
	Type    string
	UserID  string
	GroupID string
	RoomID  string
}

// TextMessage is a verified text message event. It only lives for the duration of one callback.
type TextMessage struct {
	// ReplyToken is the single-use token used to answer this event.
	ReplyToken string
	// Text is the user supplied message text.
	Text string
	// MessageID is the platform message identifier.
	MessageID string
	// WebhookEventID identifies the event across redeliveries. It may be empty.
	WebhookEventID string
	Source         Source
	// Timestamp is the event time in milliseconds since epoch.
	Timestamp int64
}
