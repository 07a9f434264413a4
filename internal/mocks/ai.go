package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/audio-analyzer/internal/domain"
	"github.com/seu-repo/audio-analyzer/internal/ports"
)

// MockSpeechToText is a mock implementation of ports.SpeechToText
type MockSpeechToText struct {
	TranscribeFunc func(ctx context.Context, req ports.SpeechRequest) (*ports.SpeechResult, error)

	mu    sync.Mutex
	Calls []ports.SpeechRequest
}

func (m *MockSpeechToText) Transcribe(ctx context.Context, req ports.SpeechRequest) (*ports.SpeechResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, req)
	}
	return &ports.SpeechResult{Text: "mock transcript"}, nil
}

// CallCount returns the number of Transcribe calls made so far
func (m *MockSpeechToText) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockTextCompleter is a mock implementation of ports.TextCompleter
type MockTextCompleter struct {
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	mu          sync.Mutex
	UserPrompts []string
}

func (m *MockTextCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	m.UserPrompts = append(m.UserPrompts, userPrompt)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, userPrompt)
	}
	return "{}", nil
}

// CallCount returns the number of Complete calls made so far
func (m *MockTextCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.UserPrompts)
}

// MockTranscriptionService is a mock implementation of ports.TranscriptionService
type MockTranscriptionService struct {
	ProcessFunc func(ctx context.Context, req domain.TranscribeRequest) (*domain.TranscribeResponse, error)

	mu       sync.Mutex
	Requests []domain.TranscribeRequest
}

func (m *MockTranscriptionService) Process(ctx context.Context, req domain.TranscribeRequest) (*domain.TranscribeResponse, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, req)
	}
	return domain.NewTranscribeResponse(domain.TranscriptionResult{RawTranscript: "mock"}, domain.EmptyAnalysis()), nil
}

// CallCount returns the number of Process calls made so far
func (m *MockTranscriptionService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
