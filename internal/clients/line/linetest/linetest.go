// Package linetest provides callback fixtures and a fake reply API for tests.
package linetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// ReplyPath is the Messaging API path used for replies.
const ReplyPath = "/v2/bot/message/reply"

// TextMessageEvent builds a one-on-one text message event.
func TextMessageEvent(replyToken, text string) map[string]any {
	return map[string]any{
		"type":           "message",
		"mode":           "active",
		"timestamp":      time.Now().UnixMilli(),
		"webhookEventId": uuid.NewString(),
		"deliveryContext": map[string]any{
			"isRedelivery": false,
		},
		"replyToken": replyToken,
		"source": map[string]any{
			"type":   "user",
			"userId": "U4af4980629",
		},
		"message": map[string]any{
			"type":       "text",
			"id":         "444573844083572737",
			"quoteToken": "q3Plxr4AgKd",
			"text":       text,
		},
	}
}

// GroupTextMessageEvent builds a text message event sent in a group chat.
func GroupTextMessageEvent(replyToken, text, groupID string) map[string]any {
	event := TextMessageEvent(replyToken, text)
	event["source"] = map[string]any{
		"type":    "group",
		"groupId": groupID,
		"userId":  "U4af4980629",
	}
	return event
}

// StickerMessageEvent builds a message event whose content is not text.
func StickerMessageEvent(replyToken string) map[string]any {
	event := TextMessageEvent(replyToken, "")
	event["message"] = map[string]any{
		"type":                "sticker",
		"id":                  "1501597916",
		"quoteToken":          "q3Plxr4AgKd",
		"stickerId":           "52002738",
		"packageId":           "11537",
		"stickerResourceType": "ANIMATION",
	}
	return event
}

// FollowEvent builds a follow event, which carries a reply token but no message.
func FollowEvent(replyToken string) map[string]any {
	return map[string]any{
		"type":           "follow",
		"mode":           "active",
		"timestamp":      time.Now().UnixMilli(),
		"webhookEventId": uuid.NewString(),
		"deliveryContext": map[string]any{
			"isRedelivery": false,
		},
		"replyToken": replyToken,
		"source": map[string]any{
			"type":   "user",
			"userId": "U4af4980629",
		},
		"follow": map[string]any{
			"isUnblocked": false,
		},
	}
}

// CallbackBody marshals events into a callback request body.
func CallbackBody(t *testing.T, events ...map[string]any) []byte {
	t.Helper()
	if events == nil {
		events = []map[string]any{}
	}
	body, err := json.Marshal(map[string]any{
		"destination": "Uxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		"events":      events,
	})
	require.NoError(t, err)
	return body
}

// Reply is a reply request received by the ReplyServer.
type Reply struct {
	ReplyToken    string
	Texts         []string
	Authorization string
}

type replyRequest struct {
	ReplyToken string `json:"replyToken"`
	Messages   []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"messages"`
}

// ReplyServer is a fake Messaging API that records reply calls.
type ReplyServer struct {
	server  *httptest.Server
	mu      sync.Mutex
	replies []Reply
	status  int
}

// NewReplyServer starts a fake Messaging API.
func NewReplyServer() *ReplyServer {
	rs := &ReplyServer{status: http.StatusOK}
	rs.server = httptest.NewServer(http.HandlerFunc(rs.handle))
	return rs
}

func (rs *ReplyServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != ReplyPath {
		http.Error(w, `{"message":"Not found"}`, http.StatusNotFound)
		return
	}
	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"The request body has 1 error(s)"}`, http.StatusBadRequest)
		return
	}
	reply := Reply{
		ReplyToken:    req.ReplyToken,
		Authorization: r.Header.Get("Authorization"),
	}
	for _, m := range req.Messages {
		reply.Texts = append(reply.Texts, m.Text)
	}

	rs.mu.Lock()
	rs.replies = append(rs.replies, reply)
	status := rs.status
	rs.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status != http.StatusOK {
		_, _ = w.Write([]byte(`{"message":"Invalid reply token"}`))
		return
	}
	_, _ = w.Write([]byte(`{"sentMessages":[{"id":"461230966842064897","quoteToken":"IStG5h1Tz7b"}]}`))
}

// URL is the endpoint to configure on the reply client.
func (rs *ReplyServer) URL() string {
	return rs.server.URL
}

// SetStatus changes the status code returned for subsequent replies.
func (rs *ReplyServer) SetStatus(status int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.status = status
}

// Replies returns a copy of the replies received so far.
func (rs *ReplyServer) Replies() []Reply {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]Reply, len(rs.replies))
	copy(out, rs.replies)
	return out
}

// Close shuts the server down.
func (rs *ReplyServer) Close() {
	rs.server.Close()
}
