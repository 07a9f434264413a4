package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrAnalysisFailed      = errors.New("analysis failed")
)

// ValidationError reports a rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TranscriptionFailure is returned once both the primary and the fallback model failed.
type TranscriptionFailure struct {
	Primary  error
	Fallback error
}

func (e *TranscriptionFailure) Error() string {
	return fmt.Sprintf("transcription failed: primary: %v; fallback: %v", e.Primary, e.Fallback)
}

func (e *TranscriptionFailure) Is(target error) bool {
	return target == ErrTranscriptionFailed
}

func (e *TranscriptionFailure) Unwrap() []error {
	return []error{e.Primary, e.Fallback}
}
