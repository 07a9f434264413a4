package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/audio-analyzer/internal/adapter/ai/openai"
	"github.com/seu-repo/audio-analyzer/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/audio-analyzer/internal/adapter/http/fiber/server"
	"github.com/seu-repo/audio-analyzer/internal/adapter/vault"
	"github.com/seu-repo/audio-analyzer/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/audio-analyzer/internal/observability/telemetry"
	"github.com/seu-repo/audio-analyzer/internal/service/health"
	"github.com/seu-repo/audio-analyzer/internal/service/transcription"
	"github.com/seu-repo/audio-analyzer/pkg/config"
)

func main() {
	// 1. Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env file: %v", err)
	}

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// 3. Initialize Logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	logger.Info("Starting audio analyzer",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 4. Resolve the OpenAI key from Vault when configured
	if cfg.OpenAI.APIKey == "" && cfg.Vault.Enabled {
		if err := loadAPIKeyFromVault(cfg); err != nil {
			logger.Fatal("Failed to read OpenAI API key from Vault", zap.Error(err))
		}
		logger.Info("Loaded OpenAI API key from Vault", zap.String("path", cfg.Vault.Path))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// 5. Initialize OpenTelemetry (optional)
	if cfg.Tracing.Enabled {
		tracerProvider, err := telemetry.InitTracer(cfg.App.Name, cfg.App.Version, cfg.Tracing.JaegerEndpoint, cfg.Tracing.SampleRatio)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 6. Health
	healthService := health.NewService(cfg.App.Version, logger)

	// 7. OpenAI client, optionally behind a circuit breaker
	httpClient := &http.Client{Timeout: cfg.OpenAI.Timeout}
	aiOptions := openai.Options{
		APIKey:          cfg.OpenAI.APIKey,
		BaseURL:         cfg.OpenAI.BaseURL,
		Organization:    cfg.OpenAI.Organization,
		HTTPClient:      httpClient,
		CompletionModel: cfg.OpenAI.CompletionModel,
		Temperature:     cfg.OpenAI.Temperature,
		SchemaName:      transcription.AnalysisSchemaName,
		Schema:          transcription.AnalysisSchema,
	}
	if cfg.CircuitBreaker.Enabled {
		breakerClient := circuitbreaker.NewHTTPClient(httpClient,
			circuitbreaker.New("openai", cfg.CircuitBreaker, logger), logger)
		aiOptions.HTTPClient = breakerClient
		healthService.RegisterChecker("openai", breakerChecker(breakerClient))
	}
	aiClient := openai.NewClient(aiOptions, logger)

	// 8. Transcription pipeline
	transcriber := transcription.NewTranscriber(aiClient,
		transcription.Model{Name: cfg.OpenAI.PrimaryModel.Name, ResponseFormat: cfg.OpenAI.PrimaryModel.ResponseFormat},
		transcription.Model{Name: cfg.OpenAI.FallbackModel.Name, ResponseFormat: cfg.OpenAI.FallbackModel.ResponseFormat},
		cfg.OpenAI.DefaultLanguage,
		logger,
	)
	transcriptionService := transcription.NewService(transcriber, aiClient, logger)

	// 9. Fiber HTTP Server
	app := server.NewApp(server.Options{
		Name:         cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		CORS:         cfg.CORS,
		AccessLog:    true,
	},
		handlers.NewTranscribeHandler(transcriptionService, logger),
		health.NewFiberHandler(healthService),
		logger,
	)

	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 10. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}

func loadAPIKeyFromVault(cfg *config.Config) error {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key, err := sm.GetString(ctx, cfg.Vault.Path, cfg.Vault.Key)
	if err != nil {
		return err
	}
	cfg.OpenAI.APIKey = key
	return nil
}

func breakerChecker(client *circuitbreaker.HTTPClient) health.Checker {
	return func(ctx context.Context) health.CheckResult {
		state := client.State()
		result := health.CheckResult{Message: "circuit " + state.String()}
		switch state {
		case gobreaker.StateOpen:
			result.Status = health.StatusUnhealthy
		case gobreaker.StateHalfOpen:
			result.Status = health.StatusDegraded
		default:
			result.Status = health.StatusHealthy
		}
		return result
	}
}
