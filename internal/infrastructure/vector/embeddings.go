// Package vector provides embedding generation and the two vector index
// backends (local SQLite and hosted Pinecone).
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/indrayudh19/Job-Mapper/internal/config"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
	"github.com/indrayudh19/Job-Mapper/internal/textutil"
)

const (
	// maxEmbedLength bounds the text sent per embedding request.
	maxEmbedLength = 8000

	embeddingTimeout = 60 * time.Second
)

// OpenAIEmbedder generates embeddings via an OpenAI-compatible endpoint.
type OpenAIEmbedder struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

var _ ports.EmbeddingService = (*OpenAIEmbedder)(nil)

// NewOpenAIEmbedder builds a reusable client from configuration.
func NewOpenAIEmbedder(cfg config.EmbeddingsConfig) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: embeddingTimeout},
	}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed generates one embedding for the given text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	text = textutil.Clip(text, maxEmbedLength)

	body, err := json.Marshal(embeddingRequest{Model: e.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var decoded embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if decoded.Error != nil {
			return nil, fmt.Errorf("embedding error: %s", decoded.Error.Message)
		}
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	if len(decoded.Data) == 0 || len(decoded.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return decoded.Data[0].Embedding, nil
}
