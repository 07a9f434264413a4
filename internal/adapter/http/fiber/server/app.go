package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/audio-analyzer/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/audio-analyzer/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/audio-analyzer/internal/service/health"
	"github.com/seu-repo/audio-analyzer/pkg/config"
)

// Options configures the HTTP application
type Options struct {
	Name         string
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORS         config.CORSConfig
	AccessLog    bool
}

// NewApp wires middleware and routes
func NewApp(opts Options, transcribe *handlers.TranscribeHandler, healthHandler *health.FiberHandler, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               opts.Name,
		ServerHeader:          opts.Name,
		DisableStartupMessage: true,
		BodyLimit:             opts.BodyLimit,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		IdleTimeout:           opts.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if opts.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(middleware.NewCORS(opts.CORS))

	healthHandler.RegisterRoutes(app)

	app.Get("/metrics", func(c *fiber.Ctx) error {
		// Adapt net/http handler to fasthttp for Fiber
		handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		handler(c.Context())
		return nil
	})

	app.Post("/transcribe", transcribe.Transcribe)

	return app
}
