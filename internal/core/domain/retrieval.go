package domain

// ChunkSource tags the provenance of a retrieved chunk. Both retrieval
// paths produce the same shape so downstream stages never branch on it.
type ChunkSource string

const (
	SourceVector  ChunkSource = "vector"
	SourceKeyword ChunkSource = "keyword"
)

type ImportanceLevel string

const (
	ImportanceHigh   ImportanceLevel = "high"
	ImportanceNormal ImportanceLevel = "normal"
)

type RetrievedChunk struct {
	Source     ChunkSource     `json:"source"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	Category   string          `json:"category"`
	Tags       []string        `json:"tags,omitempty"`
	Importance ImportanceLevel `json:"importance,omitempty"`
	Score      float64         `json:"score"`
}

type SearchFilter struct {
	Category string
}

// SourceRef is the caller-facing citation attached to every answer.
type SourceRef struct {
	Title     string      `json:"title"`
	Category  string      `json:"category"`
	Relevance float64     `json:"relevance"`
	Source    ChunkSource `json:"source"`
}
