package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/audio-analyzer/internal/domain"
	"github.com/seu-repo/audio-analyzer/internal/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts.APIKey = "sk-test"
	opts.BaseURL = srv.URL + "/v1/"
	if opts.CompletionModel == "" {
		opts.CompletionModel = "gpt-4o-mini"
	}
	return NewClient(opts, zap.NewNop())
}

func TestClient_Transcribe_SendsMultipartRequest(t *testing.T) {
	var gotModel, gotLanguage, gotFormat, gotFilename, gotAuth string
	var gotAudio []byte

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		gotFormat = r.FormValue("response_format")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		gotFilename = hdr.Filename
		gotAudio, _ = io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":" bom dia ","language":"portuguese"}`))
	}, Options{})

	res, err := client.Transcribe(context.Background(), ports.SpeechRequest{
		Model:          "whisper-1",
		ResponseFormat: "verbose_json",
		Audio:          domain.UploadedAudio{Data: []byte("RIFFdata"), Filename: "call.mp3"},
		Language:       "pt",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if res.Text != " bom dia " {
		t.Errorf("expected verbatim text, got %q", res.Text)
	}
	if res.Language != "portuguese" {
		t.Errorf("expected detected language, got %q", res.Language)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("unexpected authorization header %q", gotAuth)
	}
	if gotModel != "whisper-1" || gotLanguage != "pt" || gotFormat != "verbose_json" {
		t.Errorf("unexpected form fields model=%q language=%q format=%q", gotModel, gotLanguage, gotFormat)
	}
	if gotFilename != "call.mp3" {
		t.Errorf("expected filename call.mp3, got %q", gotFilename)
	}
	if string(gotAudio) != "RIFFdata" {
		t.Errorf("unexpected audio payload %q", gotAudio)
	}
}

func TestClient_Transcribe_DefaultFilename(t *testing.T) {
	var gotFilename string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		_, hdr, err := r.FormFile("file")
		if err == nil {
			gotFilename = hdr.Filename
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"ok"}`))
	}, Options{})

	_, err := client.Transcribe(context.Background(), ports.SpeechRequest{
		Model: "gpt-4o-mini-transcribe",
		Audio: domain.UploadedAudio{Data: []byte("x")},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotFilename != DefaultFilename {
		t.Errorf("expected %q, got %q", DefaultFilename, gotFilename)
	}
}

func TestClient_Transcribe_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
	}, Options{})

	_, err := client.Transcribe(context.Background(), ports.SpeechRequest{
		Model: "gpt-4o-mini-transcribe",
		Audio: domain.UploadedAudio{Data: []byte("x")},
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "gpt-4o-mini-transcribe") {
		t.Errorf("expected model name in error, got %v", err)
	}
}

func TestClient_Transcribe_EmptyAudio(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty audio")
	}, Options{})

	if _, err := client.Transcribe(context.Background(), ports.SpeechRequest{Model: "whisper-1"}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestClient_Complete_SendsSchemaAndMessages(t *testing.T) {
	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string          `json:"name"`
				Strict bool            `json:"strict"`
				Schema json.RawMessage `json:"schema"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"{\"summary\":\"ok\"}"},"finish_reason":"stop"}],"usage":{"total_tokens":42}}`))
	}, Options{
		SchemaName: "analysis",
		Schema:     json.RawMessage(`{"type":"object"}`),
	})

	out, err := client.Complete(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != `{"summary":"ok"}` {
		t.Errorf("unexpected content %q", out)
	}

	if body.Model != "gpt-4o-mini" {
		t.Errorf("unexpected model %q", body.Model)
	}
	if len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Content != "user text" {
		t.Errorf("unexpected messages %+v", body.Messages)
	}
	if body.ResponseFormat.Type != "json_schema" || body.ResponseFormat.JSONSchema.Name != "analysis" || !body.ResponseFormat.JSONSchema.Strict {
		t.Errorf("unexpected response format %+v", body.ResponseFormat)
	}
}

func TestClient_Complete_NoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}, Options{})

	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
