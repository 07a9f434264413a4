package transcription

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/seu-repo/audio-analyzer/internal/domain"
	"github.com/seu-repo/audio-analyzer/internal/observability/telemetry"
	"github.com/seu-repo/audio-analyzer/internal/ports"
)

// Service runs transcription followed, in clean mode, by the completion-based analysis.
type Service struct {
	transcriber     *Transcriber
	prompts         *PromptBuilder
	completer       ports.TextCompleter
	defaultLanguage string
	tracer          trace.Tracer
	log             *zap.Logger
}

var _ ports.TranscriptionService = (*Service)(nil)

func NewService(transcriber *Transcriber, completer ports.TextCompleter, log *zap.Logger) *Service {
	return &Service{
		transcriber:     transcriber,
		prompts:         NewPromptBuilder(),
		completer:       completer,
		defaultLanguage: transcriber.defaultLanguage,
		tracer:          otel.Tracer(telemetry.TracerName),
		log:             log,
	}
}

// Process transcribes the uploaded audio and, unless the mode is literal, analyzes the
// transcript. Analysis failures never fail the request; they leave the analysis fields
// at their defaults.
func (s *Service) Process(ctx context.Context, req domain.TranscribeRequest) (*domain.TranscribeResponse, error) {
	mode, err := domain.ParseMode(string(req.Mode))
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "transcription.Process", trace.WithAttributes(
		attribute.String("mode", string(mode)),
		attribute.Int("audio.bytes", len(req.Audio.Data)),
	))
	defer span.End()

	start := time.Now()
	tr, err := s.transcribe(ctx, req)
	telemetry.StageLatency.WithLabelValues("transcription").Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transcription failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("transcription.model", tr.Model))

	if mode == domain.ModeLiteral {
		return domain.NewTranscribeResponse(*tr, domain.EmptyAnalysis()), nil
	}

	start = time.Now()
	analysis := s.analyze(ctx, tr, req.LanguageHint)
	telemetry.StageLatency.WithLabelValues("analysis").Observe(time.Since(start).Seconds())

	return domain.NewTranscribeResponse(*tr, analysis), nil
}

func (s *Service) transcribe(ctx context.Context, req domain.TranscribeRequest) (*domain.TranscriptionResult, error) {
	ctx, span := s.tracer.Start(ctx, "transcription.Transcribe")
	defer span.End()
	return s.transcriber.Transcribe(ctx, req.Audio, req.LanguageHint)
}

func (s *Service) analyze(ctx context.Context, tr *domain.TranscriptionResult, languageHint string) domain.AnalysisResult {
	ctx, span := s.tracer.Start(ctx, "transcription.Analyze")
	defer span.End()

	target := languageHint
	if target == "" && tr.Language != s.defaultLanguage {
		target = tr.Language
	}

	prompt, err := s.prompts.Build(domain.ModeClean, tr.RawTranscript, target)
	if err != nil {
		s.analysisFailed(span, "prompt_error", err)
		return domain.EmptyAnalysis()
	}

	raw, err := s.completer.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		s.analysisFailed(span, "completion_error", err)
		return domain.EmptyAnalysis()
	}

	result, err := Assemble(raw)
	if err != nil {
		s.analysisFailed(span, "parse_error", err)
		return result
	}

	telemetry.AnalysisTotal.WithLabelValues("success").Inc()
	return result
}

func (s *Service) analysisFailed(span trace.Span, outcome string, err error) {
	telemetry.AnalysisTotal.WithLabelValues(outcome).Inc()
	span.RecordError(err)
	s.log.Warn("Analysis failed, returning transcript only",
		zap.String("outcome", outcome),
		zap.Error(err),
	)
}
