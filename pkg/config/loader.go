package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when no OpenAI API key could be resolved.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/app/configs")

	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow common env vars without APP_ prefix for container deploys
	v.BindEnv("http.port", "HTTP_PORT", "PORT", "APP_HTTP_PORT")
	v.BindEnv("openai.api_key", "OPENAI_API_KEY", "APP_OPENAI_API_KEY")
	v.BindEnv("openai.base_url", "OPENAI_BASE_URL", "APP_OPENAI_BASE_URL")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	v.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "audio-analyzer")
	v.SetDefault("app.version", "v1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 8000)
	v.SetDefault("http.body_limit", 25*1024*1024)
	v.SetDefault("http.read_timeout", 60*time.Second)
	v.SetDefault("http.write_timeout", 300*time.Second)
	v.SetDefault("http.idle_timeout", 120*time.Second)
	v.SetDefault("http.shutdown_timeout", 30*time.Second)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.timeout", 120*time.Second)
	v.SetDefault("openai.primary_model.name", "gpt-4o-mini-transcribe")
	v.SetDefault("openai.primary_model.response_format", "json")
	v.SetDefault("openai.fallback_model.name", "whisper-1")
	v.SetDefault("openai.fallback_model.response_format", "verbose_json")
	v.SetDefault("openai.completion_model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.2)
	v.SetDefault("openai.default_language", "unknown")

	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", time.Minute)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.min_requests", 5)
	v.SetDefault("circuit_breaker.failure_ratio", 0.6)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "http://jaeger:14268/api/traces")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("vault.path", "secret/data/openai")
	v.SetDefault("vault.key", "api_key")
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.OpenAI.PrimaryModel.Name == "" || c.OpenAI.FallbackModel.Name == "" {
		return errors.New("openai: primary and fallback transcription models must be set")
	}
	if c.OpenAI.CompletionModel == "" {
		return errors.New("openai: completion model must be set")
	}
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("http: invalid port %d", c.HTTP.Port)
	}
	return nil
}
