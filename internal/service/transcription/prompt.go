package transcription

import (
	"encoding/json"
	"strings"
	"text/template"

	"github.com/seu-repo/audio-analyzer/internal/domain"
)

// SystemPrompt accompanies every analysis request.
const SystemPrompt = "You are a senior field-operations analyst reviewing recorded collection and customer-visit calls."

const cleanPromptTemplate = `You receive the (possibly noisy) transcript of a collection or customer-visit call
between a field manager, a staff member or attendant and, sometimes, the customer.

Tasks:
1) Clean the text: remove noise, repetitions and fillers ("uh", "hmm", "ah"), keeping the original meaning.
2) Normalize speaker names where possible: Manager, Staff, Customer. If uncertain, use "Undetermined".
3) Write an objective SUMMARY (3-6 lines).
4) Extract LISTS of short sentences:
   - Recurring questions asked by the Manager.
   - Recurring actions or steps taken by the Staff member.
   - Detected intents (e.g. locate customer, confirm address, schedule visit, validate reference).
5) Suggest 6-10 BEHAVIORS for an assistant agent that helps the manager find the customer. Focus on:
   - Initial qualification questions (address, landmark, availability, alternative phone).
   - Strategies when the customer does not answer (neighbor contact, reference, alternative time, rescheduling).
   - Confirmations and wrap-up (route, landmarks, time confirmation, messages).

Write every output value in {{.Language}}.

Answer with a single JSON object and nothing else, with exactly these keys:
{{.Fields}}.
String keys: cleaned_transcript, summary. Every other key is a list of strings.

Transcript:
"""
{{.Transcript}}
"""
`

// AnalysisFields lists the keys the completion model must return.
var AnalysisFields = []string{
	"cleaned_transcript",
	"summary",
	"speakers",
	"questions_by_manager",
	"common_actions_by_staff",
	"intents_detected",
	"recommended_agent_behaviors",
}

// AnalysisSchemaName names the structured-output schema sent to the completion model.
const AnalysisSchemaName = "analysis"

// AnalysisSchema is the strict JSON schema describing the analysis object.
var AnalysisSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "cleaned_transcript": {"type": "string"},
    "summary": {"type": "string"},
    "speakers": {"type": "array", "items": {"type": "string"}},
    "questions_by_manager": {"type": "array", "items": {"type": "string"}},
    "common_actions_by_staff": {"type": "array", "items": {"type": "string"}},
    "intents_detected": {"type": "array", "items": {"type": "string"}},
    "recommended_agent_behaviors": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["cleaned_transcript", "summary", "speakers", "questions_by_manager", "common_actions_by_staff", "intents_detected", "recommended_agent_behaviors"],
  "additionalProperties": false
}`)

// PromptBuilder renders the analysis instructions for a transcript.
type PromptBuilder struct {
	tmpl *template.Template
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		tmpl: template.Must(template.New("clean").Parse(cleanPromptTemplate)),
	}
}

// Build returns the analysis prompt for mode. ModeLiteral needs no analysis and yields "".
// An empty language asks the model to answer in the language of the transcript.
func (b *PromptBuilder) Build(mode domain.Mode, rawTranscript, language string) (string, error) {
	if mode == domain.ModeLiteral {
		return "", nil
	}

	target := "the same language as the transcript"
	if language = strings.TrimSpace(language); language != "" {
		target = "the language identified by \"" + language + "\""
	}

	var sb strings.Builder
	err := b.tmpl.Execute(&sb, struct {
		Language   string
		Fields     string
		Transcript string
	}{
		Language:   target,
		Fields:     strings.Join(AnalysisFields, ", "),
		Transcript: rawTranscript,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
