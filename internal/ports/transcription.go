package ports

import (
	"context"

	"github.com/seu-repo/audio-analyzer/internal/domain"
)

// SpeechToText performs a single transcription call against one model.
type SpeechToText interface {
	Transcribe(ctx context.Context, req SpeechRequest) (*SpeechResult, error)
}

// SpeechRequest is one transcription attempt.
type SpeechRequest struct {
	Model          string
	ResponseFormat string
	Audio          domain.UploadedAudio
	Language       string
}

// SpeechResult is the verbatim output of a transcription model.
type SpeechResult struct {
	Text     string
	Language string
}

// TextCompleter runs a single system+user prompt completion and returns the raw model text.
type TextCompleter interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// TranscriptionService runs the transcribe-then-analyze pipeline for one request.
type TranscriptionService interface {
	Process(ctx context.Context, req domain.TranscribeRequest) (*domain.TranscribeResponse, error)
}
