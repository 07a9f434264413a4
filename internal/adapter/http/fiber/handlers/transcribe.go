package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/audio-analyzer/internal/domain"
	"github.com/seu-repo/audio-analyzer/internal/observability/telemetry"
	"github.com/seu-repo/audio-analyzer/internal/ports"
)

type TranscribeHandler struct {
	service  ports.TranscriptionService
	validate *validator.Validate
	log      *zap.Logger
}

func NewTranscribeHandler(service ports.TranscriptionService, log *zap.Logger) *TranscribeHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})

	return &TranscribeHandler{
		service:  service,
		validate: v,
		log:      log,
	}
}

// TranscribeForm holds the non-file multipart fields of POST /transcribe.
type TranscribeForm struct {
	Mode         string `form:"mode" validate:"omitempty,oneof=clean literal"`
	LanguageHint string `form:"language_hint" validate:"omitempty,max=32"`
}

// Transcribe handles POST /transcribe
func (h *TranscribeHandler) Transcribe(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		telemetry.TranscribeRequestsTotal.WithLabelValues("", "invalid").Inc()
		return &domain.ValidationError{Field: "file", Message: "an audio file is required in the multipart field \"file\""}
	}

	form := TranscribeForm{
		Mode:         c.FormValue("mode"),
		LanguageHint: strings.TrimSpace(c.FormValue("language_hint")),
	}
	if err := h.validate.Struct(form); err != nil {
		telemetry.TranscribeRequestsTotal.WithLabelValues("", "invalid").Inc()
		return toValidationError(err)
	}

	mode, err := domain.ParseMode(form.Mode)
	if err != nil {
		return err
	}

	audio, err := readUpload(fh)
	if err != nil {
		telemetry.TranscribeRequestsTotal.WithLabelValues(string(mode), "invalid").Inc()
		return err
	}
	telemetry.UploadBytes.Observe(float64(len(audio.Data)))

	h.log.Info("Transcribe request received",
		zap.String("filename", audio.Filename),
		zap.Int("bytes", len(audio.Data)),
		zap.String("mode", string(mode)),
		zap.String("language_hint", form.LanguageHint),
	)

	resp, err := h.service.Process(c.UserContext(), domain.TranscribeRequest{
		Audio:        audio,
		Mode:         mode,
		LanguageHint: form.LanguageHint,
	})
	if err != nil {
		telemetry.TranscribeRequestsTotal.WithLabelValues(string(mode), "failed").Inc()
		return err
	}

	telemetry.TranscribeRequestsTotal.WithLabelValues(string(mode), "ok").Inc()
	return c.JSON(resp)
}

func readUpload(fh *multipart.FileHeader) (domain.UploadedAudio, error) {
	if fh.Size == 0 {
		return domain.UploadedAudio{}, &domain.ValidationError{Field: "file", Message: "uploaded file is empty"}
	}

	f, err := fh.Open()
	if err != nil {
		return domain.UploadedAudio{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.UploadedAudio{}, fmt.Errorf("read upload: %w", err)
	}

	return domain.UploadedAudio{
		Data:        data,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.ValidationError{Message: err.Error()}
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "oneof":
		return &domain.ValidationError{Field: fe.Field(), Message: "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")}
	case "max":
		return &domain.ValidationError{Field: fe.Field(), Message: "must be at most " + fe.Param() + " characters"}
	default:
		return &domain.ValidationError{Field: fe.Field(), Message: "is invalid"}
	}
}
