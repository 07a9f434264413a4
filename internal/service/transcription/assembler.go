package transcription

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/seu-repo/audio-analyzer/internal/domain"
)

// Assemble extracts the analysis fields from the completion output. Each field falls back
// to its default independently. The returned result is always usable; the error only
// reports that no JSON object could be parsed at all.
func Assemble(rawModelText string) (domain.AnalysisResult, error) {
	result := domain.EmptyAnalysis()

	obj, err := parseObject(rawModelText)
	if err != nil {
		return result, fmt.Errorf("%w: %v", domain.ErrAnalysisFailed, err)
	}

	result.CleanedTranscript = stringField(obj["cleaned_transcript"])
	result.Summary = stringField(obj["summary"])
	result.Speakers = listField(obj["speakers"])
	result.QuestionsByManager = listField(obj["questions_by_manager"])
	result.CommonActionsByStaff = listField(obj["common_actions_by_staff"])
	result.IntentsDetected = listField(obj["intents_detected"])
	result.RecommendedAgentBehaviors = listField(obj["recommended_agent_behaviors"])

	return result, nil
}

// parseObject accepts a bare JSON object, one wrapped in a markdown code fence, or one
// surrounded by prose.
func parseObject(text string) (map[string]json.RawMessage, error) {
	text = stripCodeFence(strings.TrimSpace(text))
	if text == "" {
		return nil, errors.New("empty completion")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
		return obj, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		obj = nil
		if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err == nil && obj != nil {
			return obj, nil
		}
	}

	return nil, errors.New("completion is not a JSON object")
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// drop the info string, e.g. "json"
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func listField(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return []string{}
	}
	// A null or non-string element discards the whole list.
	list := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if bytes.Equal(bytes.TrimSpace(item), []byte("null")) || json.Unmarshal(item, &s) != nil {
			return []string{}
		}
		list = append(list, s)
	}
	return list
}
