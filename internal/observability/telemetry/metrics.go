package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TranscribeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audio_analyzer_transcribe_requests_total",
		Help: "Transcribe requests by mode and outcome",
	}, []string{"mode", "status"})

	TranscriptionAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audio_analyzer_transcription_attempts_total",
		Help: "Speech-to-text calls by model and outcome",
	}, []string{"model", "outcome"})

	AnalysisTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audio_analyzer_analysis_total",
		Help: "Completion-based analyses by outcome",
	}, []string{"outcome"})

	StageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "audio_analyzer_stage_latency_seconds",
		Help:    "Latency of pipeline stages",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
	}, []string{"stage"})

	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "audio_analyzer_upload_bytes",
		Help:    "Size of uploaded audio files",
		Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8),
	})
)
