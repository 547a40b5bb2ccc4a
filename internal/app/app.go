package app

import (
	"context"
	"fmt"

	"github.com/DIMO-Network/line-ai-relay/internal/celcondition"
	"github.com/DIMO-Network/line-ai-relay/internal/clients/completion"
	"github.com/DIMO-Network/line-ai-relay/internal/clients/line"
	"github.com/DIMO-Network/line-ai-relay/internal/config"
	"github.com/DIMO-Network/line-ai-relay/internal/controllers/callback"
	"github.com/DIMO-Network/line-ai-relay/internal/services/eventdedup"
	"github.com/DIMO-Network/line-ai-relay/internal/services/relay"
	"github.com/DIMO-Network/server-garage/pkg/fibercommon"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// CreateServers builds the relay pipeline from settings and returns the web app serving it.
func CreateServers(ctx context.Context, settings *config.Settings, logger zerolog.Logger) (*fiber.App, error) {
	lineClient, err := line.New(settings.LineChannelAccessToken, settings.LineAPIEndpoint, settings.LineTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE client: %w", err)
	}

	generator, err := completion.NewGenerator(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion generator: %w", err)
	}
	completer := completion.NewService(generator, settings.FallbackMessage, settings.CompletionTimeout)

	filter, err := celcondition.NewFilter(settings.RelayCondition)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare relay condition: %w", err)
	}

	dedup := eventdedup.New(settings.EventDedupTTL)
	relayService := relay.New(completer, lineClient, dedup, filter)

	logger.Info().
		Str("backend", generator.Name()).
		Bool("condition", settings.RelayCondition != "").
		Msg("Relay pipeline ready")

	return CreateFiberApp(logger, relayService, settings), nil
}

// CreateFiberApp sets up the API routes.
func CreateFiberApp(logger zerolog.Logger, relayService callback.MessageRelay, settings *config.Settings) *fiber.App {
	logger.Info().Msg("Starting LINE AI relay...")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fibercommon.ErrorHandler(c, err)
		},
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(fibercommon.ContextLoggerMiddleware)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to the LINE AI relay!")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"data": "Server is up and running",
		})
	})

	callbackController := callback.NewCallbackController(settings.LineChannelSecret, relayService)
	logger.Info().Str("path", settings.CallbackPath).Msg("Registering routes...")
	app.Post(settings.CallbackPath, callbackController.HandleCallback)

	return app
}
