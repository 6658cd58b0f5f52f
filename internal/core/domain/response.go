package domain

// PipelineMode selects how much of the pipeline runs for a query.
type PipelineMode string

const (
	// ModeBasic skips enhancement and formatting: retrieve then generate.
	ModeBasic PipelineMode = "basic"
	// ModeEnhanced runs the full enhance/retrieve/generate/format chain.
	ModeEnhanced PipelineMode = "enhanced"
	// ModeMemory is the enhanced chain plus session context injection.
	ModeMemory PipelineMode = "memory"
	// ModeContextOnly retrieves and returns raw chunks without generation.
	ModeContextOnly PipelineMode = "context"
)

// QueryOptions carries per-request pipeline overrides. Zero values mean
// "decide from the question": the interview type is auto-detected and
// the mode defaults to enhanced.
type QueryOptions struct {
	Mode          PipelineMode
	InterviewType InterviewType
	SessionID     string
	TopK          int
}

// QueryResult is the pipeline's terminal output. Success is false only
// when every fallback layer was exhausted; the answer field still holds
// a user-facing message in that case.
type QueryResult struct {
	Success       bool             `json:"success"`
	Answer        string           `json:"answer"`
	Question      string           `json:"question"`
	EnhancedQuery string           `json:"enhanced_query,omitempty"`
	InterviewType InterviewType    `json:"interview_type"`
	Intent        QueryIntent      `json:"intent"`
	Sources       []SourceRef      `json:"sources,omitempty"`
	Chunks        []RetrievedChunk `json:"chunks,omitempty"`
	SessionID     string           `json:"session_id,omitempty"`
	Metrics       QueryMetrics     `json:"metrics"`
}
