package domain

// Mode selects how much processing a transcription request receives.
type Mode string

const (
	ModeClean   Mode = "clean"
	ModeLiteral Mode = "literal"
)

// ParseMode resolves a form value into a Mode. An empty value means ModeClean.
// Matching is exact: "CLEAN" or " literal" are rejected.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeClean:
		return ModeClean, nil
	case ModeLiteral:
		return ModeLiteral, nil
	default:
		return "", &ValidationError{Field: "mode", Message: "mode must be one of: clean, literal"}
	}
}

// UploadedAudio is the raw upload as received from the caller.
type UploadedAudio struct {
	Data        []byte
	Filename    string
	ContentType string
}

// TranscribeRequest is the validated input of the pipeline.
type TranscribeRequest struct {
	Audio        UploadedAudio
	Mode         Mode
	LanguageHint string
}

// TranscriptionResult is produced once per request by the transcription step.
type TranscriptionResult struct {
	Language      string `json:"language"`
	RawTranscript string `json:"raw_transcript"`
	Model         string `json:"-"`
}

// AnalysisResult holds the fields extracted by the completion model.
type AnalysisResult struct {
	CleanedTranscript         string   `json:"cleaned_transcript"`
	Summary                   string   `json:"summary"`
	Speakers                  []string `json:"speakers"`
	QuestionsByManager        []string `json:"questions_by_manager"`
	CommonActionsByStaff      []string `json:"common_actions_by_staff"`
	IntentsDetected           []string `json:"intents_detected"`
	RecommendedAgentBehaviors []string `json:"recommended_agent_behaviors"`
}

// EmptyAnalysis returns the default analysis: empty strings and empty, non-nil lists.
func EmptyAnalysis() AnalysisResult {
	return AnalysisResult{
		Speakers:                  []string{},
		QuestionsByManager:        []string{},
		CommonActionsByStaff:      []string{},
		IntentsDetected:           []string{},
		RecommendedAgentBehaviors: []string{},
	}
}

// TranscribeResponse is the flat JSON object returned by POST /transcribe.
type TranscribeResponse struct {
	TranscriptionResult
	AnalysisResult
}

// NewTranscribeResponse merges both results. Nil lists are replaced by empty ones
// so they serialize as [] rather than null.
func NewTranscribeResponse(tr TranscriptionResult, ar AnalysisResult) *TranscribeResponse {
	ar.Speakers = nonNil(ar.Speakers)
	ar.QuestionsByManager = nonNil(ar.QuestionsByManager)
	ar.CommonActionsByStaff = nonNil(ar.CommonActionsByStaff)
	ar.IntentsDetected = nonNil(ar.IntentsDetected)
	ar.RecommendedAgentBehaviors = nonNil(ar.RecommendedAgentBehaviors)
	return &TranscribeResponse{TranscriptionResult: tr, AnalysisResult: ar}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
