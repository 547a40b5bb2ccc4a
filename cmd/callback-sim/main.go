package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/DIMO-Network/line-ai-relay/internal/clients/line"
	"github.com/DIMO-Network/line-ai-relay/internal/config"
	"github.com/DIMO-Network/server-garage/pkg/env"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// callback-sim posts a signed text message callback to a running relay.
// The reply token is random, so the relay's reply is rejected by the real platform.
func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	envFile := flag.String("env-file", ".env", "path to env file")
	target := flag.String("url", "", "callback URL (default http://localhost:$PORT$CALLBACK_PATH)")
	text := flag.String("text", "こんにちは", "message text")
	secret := flag.String("secret", "", "channel secret (default LINE_CHANNEL_SECRET)")
	flag.Parse()

	settings, err := env.LoadSettings[config.Settings](*envFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not load settings")
	}
	settings.SetDefaults()
	if *secret == "" {
		*secret = settings.LineChannelSecret
	}
	if *secret == "" {
		logger.Fatal().Msg("No channel secret, set -secret or LINE_CHANNEL_SECRET")
	}
	if *target == "" {
		*target = "http://localhost:" + strconv.Itoa(settings.Port) + settings.CallbackPath
	}

	body, err := json.Marshal(sampleCallback(*text))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to encode callback")
	}

	req, err := http.NewRequest(http.MethodPost, *target, bytes.NewReader(body))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(line.SignatureHeader, line.Sign(*secret, body))

	client := &http.Client{Timeout: settings.CompletionTimeout + settings.LineTimeout}
	resp, err := client.Do(req)
	if err != nil {
		logger.Fatal().Err(err).Str("url", *target).Msg("Callback failed")
	}
	defer resp.Body.Close() //nolint:errcheck
	respBody, _ := io.ReadAll(resp.Body)

	logger.Info().
		Str("url", *target).
		Int("status", resp.StatusCode).
		Str("body", string(respBody)).
		Msg("Callback delivered")
}

func sampleCallback(text string) map[string]any {
	return map[string]any{
		"destination": "U00000000000000000000000000000000",
		"events": []map[string]any{{
			"type":            "message",
			"mode":            "active",
			"timestamp":       time.Now().UnixMilli(),
			"webhookEventId":  uuid.NewString(),
			"deliveryContext": map[string]any{"isRedelivery": false},
			"replyToken":      uuid.NewString(),
			"source":          map[string]any{"type": "user", "userId": "U00000000000000000000000000000000"},
			"message": map[string]any{
				"type":       "text",
				"id":         "100001",
				"quoteToken": uuid.NewString(),
				"text":       text,
			},
		}},
	}
}
