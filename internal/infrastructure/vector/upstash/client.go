package upstash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/infrastructure/resilience"
)

// Client talks to an Upstash Vector index over its REST API. Text goes
// up raw; the index embeds server side.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	exec       *resilience.Executor
}

func New(baseURL, token string, exec *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		exec:       exec,
	}
}

type chunkMetadata struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags,omitempty"`
	Importance string   `json:"importance,omitempty"`
}

type queryRequest struct {
	Data            string `json:"data"`
	TopK            int    `json:"topK"`
	IncludeMetadata bool   `json:"includeMetadata"`
	Filter          string `json:"filter,omitempty"`
}

type queryResponse struct {
	Result []struct {
		ID       string         `json:"id"`
		Score    float64        `json:"score"`
		Metadata *chunkMetadata `json:"metadata"`
	} `json:"result"`
}

// Search implements ports.VectorIndex.
func (c *Client) Search(ctx context.Context, text string, topK int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error) {
	req := queryRequest{
		Data:            text,
		TopK:            topK,
		IncludeMetadata: true,
	}
	if filter.Category != "" {
		req.Filter = fmt.Sprintf("category = '%s'", filter.Category)
	}

	var response queryResponse
	if err := c.call(ctx, "vector_query", 2, "/query-data", req, &response); err != nil {
		return nil, err
	}

	chunks := make([]domain.RetrievedChunk, 0, len(response.Result))
	for _, hit := range response.Result {
		if hit.Metadata == nil {
			continue
		}
		chunks = append(chunks, domain.RetrievedChunk{
			Source:     domain.SourceVector,
			Title:      hit.Metadata.Title,
			Content:    hit.Metadata.Content,
			Category:   hit.Metadata.Category,
			Tags:       hit.Metadata.Tags,
			Importance: domain.ImportanceLevel(hit.Metadata.Importance),
			Score:      hit.Score,
		})
	}
	return chunks, nil
}

type upsertRecord struct {
	ID       string        `json:"id"`
	Data     string        `json:"data"`
	Metadata chunkMetadata `json:"metadata"`
}

// Upsert implements ports.VectorIndex. Record ids derive from category
// and position so repopulating overwrites instead of duplicating.
func (c *Client) Upsert(ctx context.Context, chunks []domain.RetrievedChunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	records := make([]upsertRecord, 0, len(chunks))
	perCategory := make(map[string]int)
	for _, chunk := range chunks {
		n := perCategory[chunk.Category]
		perCategory[chunk.Category] = n + 1
		records = append(records, upsertRecord{
			ID:   fmt.Sprintf("%s_%d", chunk.Category, n),
			Data: chunk.Title + ". " + chunk.Content,
			Metadata: chunkMetadata{
				Title:      chunk.Title,
				Content:    chunk.Content,
				Category:   chunk.Category,
				Tags:       chunk.Tags,
				Importance: string(chunk.Importance),
			},
		})
	}

	var response struct {
		Result string `json:"result"`
	}
	if err := c.call(ctx, "vector_upsert", 2, "/upsert-data", records, &response); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (c *Client) call(ctx context.Context, operation string, maxAttempts int, path string, payload, out any) error {
	run := func(ctx context.Context) error {
		return c.postJSON(ctx, path, payload, out, operation)
	}
	if c.exec == nil {
		return run(ctx)
	}
	err := c.exec.ExecuteWithAttempts(ctx, operation, maxAttempts, run, classifyUpstashError)
	if err != nil {
		return wrapTemporaryIfNeeded(operation, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstash %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}
