// Package main provides the Flowdesk API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/flowdesk/flowdesk/pkg/audit"
	"github.com/flowdesk/flowdesk/pkg/eventbus"
	"github.com/flowdesk/flowdesk/pkg/notify"
	"github.com/flowdesk/flowdesk/pkg/otelhelper"
	"github.com/flowdesk/flowdesk/pkg/persistence"
	"github.com/flowdesk/flowdesk/pkg/services"
	"github.com/flowdesk/flowdesk/pkg/upload"
	"github.com/flowdesk/flowdesk/pkg/web"
	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/static"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const uploadsRoute = "/uploads"

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	uploadDir   string
	validate    *validator.Validate
	tracing     bool
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	uploadDir string,
	tracing bool,
) *API {
	return &API{
		persistence: persistence,
		logger:      logger,
		eventBus:    eventBus,
		uploadDir:   uploadDir,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		tracing:     tracing,
	}
}

func (a *API) App(ctx context.Context) (*fiber.App, error) {
	var tracer trace.Tracer

	if a.tracing {
		var err error

		tracer, err = otelhelper.NewTracer(ctx, "flowdesk-api")
		if err != nil {
			return nil, err
		}
	} else {
		tracer = noop.NewTracerProvider().Tracer("flowdesk-api")
	}

	uploader := upload.NewLocalUploader(a.uploadDir, uploadsRoute, a.logger)
	notifier := notify.NewEventBusNotifier(a.eventBus, a.logger)

	trail := audit.NewTrail(a.logger)
	if err := trail.Start(ctx, a.eventBus); err != nil {
		return nil, err
	}

	templateService := services.NewTemplate(a.persistence, a.logger)
	orderService := services.NewOrder(a.persistence, notifier, uploader, tracer, a.logger)

	handlers := web.NewAPIHandlers(templateService, orderService, a.persistence, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowdesk API")
	})

	app.Get(uploadsRoute+"/*", static.New(a.uploadDir))

	web.Register(app, handlers)

	return app, nil
}

func (a *API) Start(ctx context.Context, port int) error {
	app, err := a.App(ctx)
	if err != nil {
		return err
	}

	return app.Listen(":" + strconv.Itoa(port))
}
