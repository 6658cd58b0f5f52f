package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
)

const minKeywordRelevance = 0.2

// RetrieveUseCase finds profile chunks for a question. Vector search is
// the primary path; a deterministic keyword scan over the profile
// corpus covers vector outages and empty result sets, so retrieval
// itself never fails.
type RetrieveUseCase struct {
	vector ports.VectorIndex
	corpus []domain.RetrievedChunk
}

func NewRetrieveUseCase(vector ports.VectorIndex, profile domain.Profile) *RetrieveUseCase {
	return &RetrieveUseCase{
		vector: vector,
		corpus: domain.BuildCorpus(profile),
	}
}

// Retrieve returns up to topK chunks ordered by relevance. The chunk
// Source field records which path produced each result.
func (uc *RetrieveUseCase) Retrieve(ctx context.Context, question string, topK int, filter domain.SearchFilter) []domain.RetrievedChunk {
	if topK <= 0 {
		topK = 5
	}
	intent := domain.ClassifyIntent(question)

	if uc.vector != nil {
		chunks, err := uc.vector.Search(ctx, question, topK, filter)
		if err == nil && len(chunks) > 0 {
			return chunks
		}
	}

	return uc.searchKeyword(question, intent, topK, filter)
}

// searchKeyword scores corpus chunks against the question tokens.
func (uc *RetrieveUseCase) searchKeyword(question string, intent domain.QueryIntent, topK int, filter domain.SearchFilter) []domain.RetrievedChunk {
	lower := strings.ToLower(question)
	tokens := strings.Fields(lower)

	scored := make([]domain.RetrievedChunk, 0, len(uc.corpus))
	for _, chunk := range uc.corpus {
		if filter.Category != "" && chunk.Category != filter.Category {
			continue
		}

		relevance := 0.0
		if chunk.Category == string(intent) {
			relevance += 0.5
		}

		content := strings.ToLower(chunk.Content)
		title := strings.ToLower(chunk.Title)
		for _, token := range tokens {
			if len(token) <= 2 {
				continue
			}
			if strings.Contains(content, token) {
				relevance += 0.1
			}
			if strings.Contains(title, token) {
				relevance += 0.2
			}
			for _, tag := range chunk.Tags {
				if strings.Contains(strings.ToLower(tag), token) {
					relevance += 0.15
					break
				}
			}
		}

		if chunk.Importance == domain.ImportanceHigh {
			relevance += 0.1
		}

		if relevance <= minKeywordRelevance {
			continue
		}
		chunk.Score = relevance
		scored = append(scored, chunk)
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
