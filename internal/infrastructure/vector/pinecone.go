package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/indrayudh19/Job-Mapper/internal/config"
	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
)

const pineconeTimeout = 30 * time.Second

// PineconeIndex talks to a hosted Pinecone index over its REST API.
type PineconeIndex struct {
	host   string
	apiKey string
	client *http.Client
}

var _ ports.VectorIndex = (*PineconeIndex)(nil)

// NewPineconeIndex builds a client for the index-specific host endpoint.
func NewPineconeIndex(cfg config.PineconeConfig) *PineconeIndex {
	host := strings.TrimRight(cfg.Host, "/")
	if host != "" && !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}
	return &PineconeIndex{
		host:   host,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: pineconeTimeout},
	}
}

type pineconeVector struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Upsert stores the embedding under the record identifier. Metadata rides
// along so Query's location filter has something to match.
func (p *PineconeIndex) Upsert(ctx context.Context, id string, embedding []float32, metadata map[string]string) error {
	payload := map[string]any{
		"vectors": []pineconeVector{{ID: id, Values: embedding, Metadata: metadata}},
	}
	return p.post(ctx, "/vectors/upsert", payload, nil)
}

// Query returns the topK nearest vectors, optionally filtered by location
// metadata equality.
func (p *PineconeIndex) Query(ctx context.Context, embedding []float32, topK int, location string) ([]domain.VectorMatch, error) {
	payload := map[string]any{
		"vector":          embedding,
		"topK":            topK,
		"includeMetadata": false,
	}
	if location != "" {
		payload["filter"] = map[string]any{
			"location": map[string]any{"$eq": location},
		}
	}

	var decoded struct {
		Matches []struct {
			ID    string  `json:"id"`
			Score float64 `json:"score"`
		} `json:"matches"`
	}
	if err := p.post(ctx, "/query", payload, &decoded); err != nil {
		return nil, err
	}

	matches := make([]domain.VectorMatch, 0, len(decoded.Matches))
	for _, match := range decoded.Matches {
		matches = append(matches, domain.VectorMatch{ID: match.ID, Score: match.Score})
	}
	return matches, nil
}

// Stats returns the total vector count reported by the index.
func (p *PineconeIndex) Stats(ctx context.Context) (int, error) {
	var decoded struct {
		TotalVectorCount int `json:"totalVectorCount"`
	}
	if err := p.post(ctx, "/describe_index_stats", map[string]any{}, &decoded); err != nil {
		return 0, err
	}
	return decoded.TotalVectorCount, nil
}

func (p *PineconeIndex) post(ctx context.Context, path string, payload any, v any) error {
	if p.host == "" {
		return fmt.Errorf("pinecone host is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("pinecone error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
