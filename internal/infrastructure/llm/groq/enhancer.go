package groq

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	enhanceTemperature = 0.3
	enhanceMaxTokens   = 150
)

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// Enhancer rewrites interview questions into retrieval queries.
// Rewrites are memoized per question and model so repeated questions
// skip the extra LLM round trip.
type Enhancer struct {
	client   *Client
	rewrites *gocache.Cache
}

func NewEnhancer(client *Client, ttl time.Duration) *Enhancer {
	return &Enhancer{
		client:   client,
		rewrites: gocache.New(ttl, 2*ttl),
	}
}

// Enhance implements ports.QueryEnhancer. Enhancement is never
// retried: the caller falls back to the original question instead.
func (e *Enhancer) Enhance(ctx context.Context, question, model string) (string, error) {
	key := rewriteKey(question, model)
	if cached, ok := e.rewrites.Get(key); ok {
		return cached.(string), nil
	}

	enhanced, err := e.client.chat(ctx, "query_enhancement", 1, chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: enhancementPrompt(question)}},
		Temperature: enhanceTemperature,
		MaxTokens:   enhanceMaxTokens,
	})
	if err != nil {
		return "", err
	}
	if enhanced == "" {
		return question, nil
	}

	e.rewrites.SetDefault(key, enhanced)
	return enhanced, nil
}

func enhancementPrompt(question string) string {
	return fmt.Sprintf(`You are an interview preparation assistant that improves search queries.

Original question: %q

Enhance this query to better search professional profile data by:
- Adding relevant synonyms and related terms
- Expanding context for interview scenarios
- Including technical and soft skill variations
- Focusing on achievements and quantifiable results

Return only the enhanced search query (no explanation):`, question)
}

func rewriteKey(question, model string) string {
	normalized := strings.ToLower(question)
	normalized = nonWordPattern.ReplaceAllString(normalized, "")
	normalized = strings.Join(strings.Fields(normalized), " ")
	return model + "|" + normalized
}
