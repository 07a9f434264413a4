package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/seu-repo/audio-analyzer/internal/ports"
)

// DefaultFilename is sent when the upload carries no filename. The API infers the
// audio container from the extension.
const DefaultFilename = "audio.wav"

// Options configures the OpenAI client
type Options struct {
	APIKey       string
	BaseURL      string
	Organization string
	// HTTPClient replaces the SDK's default http.Client, e.g. with a circuit breaker.
	HTTPClient goopenai.HTTPDoer

	CompletionModel string
	Temperature     float32
	// SchemaName and Schema request structured output from the completion model.
	// Plain JSON-object mode is used when Schema is empty.
	SchemaName string
	Schema     json.RawMessage
}

// Client provides access to OpenAI audio transcription and chat completion APIs.
// It implements ports.SpeechToText and ports.TextCompleter.
type Client struct {
	api             *goopenai.Client
	completionModel string
	temperature     float32
	responseFormat  *goopenai.ChatCompletionResponseFormat
	log             *zap.Logger
}

var (
	_ ports.SpeechToText  = (*Client)(nil)
	_ ports.TextCompleter = (*Client)(nil)
)

// NewClient creates a new OpenAI API client
func NewClient(opts Options, log *zap.Logger) *Client {
	cfg := goopenai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	cfg.OrgID = opts.Organization
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	format := &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeJSONObject}
	if len(opts.Schema) > 0 {
		format = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:   opts.SchemaName,
				Schema: opts.Schema,
				Strict: true,
			},
		}
	}

	return &Client{
		api:             goopenai.NewClientWithConfig(cfg),
		completionModel: opts.CompletionModel,
		temperature:     opts.Temperature,
		responseFormat:  format,
		log:             log,
	}
}

// --- Audio transcription ---

// Transcribe sends the audio to a single transcription model
func (c *Client) Transcribe(ctx context.Context, req ports.SpeechRequest) (*ports.SpeechResult, error) {
	if len(req.Audio.Data) == 0 {
		return nil, errors.New("openai: empty audio")
	}

	filename := req.Audio.Filename
	if filename == "" {
		filename = DefaultFilename
	}

	start := time.Now()
	resp, err := c.api.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    req.Model,
		FilePath: filename,
		Reader:   bytes.NewReader(req.Audio.Data),
		Language: req.Language,
		Format:   goopenai.AudioResponseFormat(req.ResponseFormat),
	})
	if err != nil {
		return nil, fmt.Errorf("openai: transcription with %s: %w", req.Model, err)
	}

	c.log.Debug("Transcription completed",
		zap.String("model", req.Model),
		zap.Int("audio_bytes", len(req.Audio.Data)),
		zap.String("language", resp.Language),
		zap.Duration("duration", time.Since(start)),
	)

	return &ports.SpeechResult{
		Text:     resp.Text,
		Language: resp.Language,
	}, nil
}

// --- Chat completion ---

// Complete sends a single system/user prompt pair and returns the raw model text
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.completionModel,
		Temperature: c.temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: c.responseFormat,
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion with %s: %w", c.completionModel, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	c.log.Debug("Chat completion finished",
		zap.String("model", c.completionModel),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Duration("duration", time.Since(start)),
	)

	return resp.Choices[0].Message.Content, nil
}
