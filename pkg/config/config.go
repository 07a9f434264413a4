package config

import "time"

type Config struct {
	App            AppConfig            `mapstructure:"app"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	CORS           CORSConfig           `mapstructure:"cors"`
	OpenAI         OpenAIConfig         `mapstructure:"openai"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
	Vault          VaultConfig          `mapstructure:"vault"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	BodyLimit       int           `mapstructure:"body_limit"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	ExposeHeaders  []string `mapstructure:"expose_headers"`
	MaxAge         int      `mapstructure:"max_age"`
	Credentials    bool     `mapstructure:"credentials"`
}

type OpenAIConfig struct {
	APIKey          string             `mapstructure:"api_key"`
	BaseURL         string             `mapstructure:"base_url"`
	Organization    string             `mapstructure:"organization"`
	Timeout         time.Duration      `mapstructure:"timeout"`
	PrimaryModel    TranscriptionModel `mapstructure:"primary_model"`
	FallbackModel   TranscriptionModel `mapstructure:"fallback_model"`
	CompletionModel string             `mapstructure:"completion_model"`
	Temperature     float32            `mapstructure:"temperature"`
	DefaultLanguage string             `mapstructure:"default_language"`
}

// TranscriptionModel names a speech-to-text model and the response format it supports.
type TranscriptionModel struct {
	Name           string `mapstructure:"name"`
	ResponseFormat string `mapstructure:"response_format"`
}

type CircuitBreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MinRequests  uint32        `mapstructure:"min_requests"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

type VaultConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
	Token   string `mapstructure:"token"`
	Path    string `mapstructure:"path"`
	Key     string `mapstructure:"key"`
}
