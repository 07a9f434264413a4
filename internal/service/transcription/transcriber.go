package transcription

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/audio-analyzer/internal/domain"
	"github.com/seu-repo/audio-analyzer/internal/observability/telemetry"
	"github.com/seu-repo/audio-analyzer/internal/ports"
)

var errNoResult = errors.New("model returned no result")

// Model identifies a speech-to-text model and the response format requested from it.
type Model struct {
	Name           string
	ResponseFormat string
}

// Transcriber calls the primary model and, when that fails, the fallback model exactly once.
type Transcriber struct {
	stt             ports.SpeechToText
	primary         Model
	fallback        Model
	defaultLanguage string
	log             *zap.Logger
}

func NewTranscriber(stt ports.SpeechToText, primary, fallback Model, defaultLanguage string, log *zap.Logger) *Transcriber {
	return &Transcriber{
		stt:             stt,
		primary:         primary,
		fallback:        fallback,
		defaultLanguage: defaultLanguage,
		log:             log,
	}
}

// Transcribe returns the transcript of audio. The language of the result is the hint when
// given, else the language detected by the model, else the configured default.
func (t *Transcriber) Transcribe(ctx context.Context, audio domain.UploadedAudio, languageHint string) (*domain.TranscriptionResult, error) {
	if len(audio.Data) == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "uploaded file is empty"}
	}
	languageHint = strings.TrimSpace(languageHint)

	result, primaryErr := t.attempt(ctx, t.primary, audio, languageHint)
	if primaryErr == nil {
		return result, nil
	}

	t.log.Warn("Primary transcription model failed, trying fallback",
		zap.String("primary", t.primary.Name),
		zap.String("fallback", t.fallback.Name),
		zap.Error(primaryErr),
	)

	result, fallbackErr := t.attempt(ctx, t.fallback, audio, languageHint)
	if fallbackErr == nil {
		return result, nil
	}

	t.log.Error("Fallback transcription model failed",
		zap.String("fallback", t.fallback.Name),
		zap.Error(fallbackErr),
	)

	return nil, &domain.TranscriptionFailure{Primary: primaryErr, Fallback: fallbackErr}
}

func (t *Transcriber) attempt(ctx context.Context, model Model, audio domain.UploadedAudio, languageHint string) (*domain.TranscriptionResult, error) {
	start := time.Now()
	out, err := t.stt.Transcribe(ctx, ports.SpeechRequest{
		Model:          model.Name,
		ResponseFormat: model.ResponseFormat,
		Audio:          audio,
		Language:       languageHint,
	})

	if err == nil && out == nil {
		err = errNoResult
	}

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	telemetry.TranscriptionAttemptsTotal.WithLabelValues(model.Name, outcome).Inc()
	if err != nil {
		return nil, err
	}

	// Silence yields an empty transcript, which is a valid result.
	text := strings.TrimSpace(out.Text)
	t.log.Info("Audio transcribed",
		zap.String("model", model.Name),
		zap.Int("transcript_chars", len(text)),
		zap.Duration("duration", time.Since(start)),
	)

	return &domain.TranscriptionResult{
		Language:      t.resolveLanguage(languageHint, out.Language),
		RawTranscript: text,
		Model:         model.Name,
	}, nil
}

func (t *Transcriber) resolveLanguage(hint, detected string) string {
	if hint != "" {
		return hint
	}
	if detected = strings.TrimSpace(detected); detected != "" {
		return detected
	}
	return t.defaultLanguage
}
