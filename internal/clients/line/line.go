package line

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

const (
	// MaxTextLength is the longest text message the reply API accepts.
	MaxTextLength = 5000

	defaultTimeout = 10 * time.Second
)

// Client sends replies through the LINE Messaging API.
type Client struct {
	api *messaging_api.MessagingApiAPI
}

// New creates a new Client. An empty endpoint keeps the SDK default.
func New(accessToken, endpoint string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := []messaging_api.MessagingApiAPIOption{
		messaging_api.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if endpoint != "" {
		opts = append(opts, messaging_api.WithEndpoint(endpoint))
	}
	api, err := messaging_api.NewMessagingApiAPI(accessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging API client: %w", err)
	}
	return &Client{api: api}, nil
}

// Reply answers the event identified by replyToken with a single text message.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	_, err := c.api.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: truncate(text, MaxTextLength)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send reply message: %w", err)
	}
	return nil
}

func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}
