package domain

// CompletionRequest is a single chat-completion call against the LLM
// backend. Model and sampling parameters come from the interview
// config of the query being served.
type CompletionRequest struct {
	System      string
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
}
