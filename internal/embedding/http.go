package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultDimension = 768

// HTTP calls an EmbeddingGood-compatible API:
// POST /embed, header x-api-key,
// body {"input": [...], "type": "query"|"document", "dimension": n},
// response {"embeddings": [[...], ...]}.
type HTTP struct {
	BaseURL   string
	APIKey    string
	Dimension int
	Client    *http.Client
}

func NewHTTP(baseURL, apiKey string, dimension int) *HTTP {
	if dimension <= 0 {
		dimension = defaultDimension
	}
	return &HTTP{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		APIKey:    apiKey,
		Dimension: dimension,
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type embedRequest struct {
	Input     []string `json:"input"`
	Type      Kind     `json:"type"`
	Dimension int      `json:"dimension"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

func (h *HTTP) Embed(ctx context.Context, texts []string, kind Kind) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(embedRequest{Input: texts, Type: kind, Dimension: h.Dimension})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+"/embed", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.APIKey != "" {
		req.Header.Set("x-api-key", h.APIKey)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("embedding: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var out embedResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("embedding: decode response: %w", err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding: got %d vectors for %d inputs", len(out.Embeddings), len(texts))
	}
	vecs := make([][]float32, len(out.Embeddings))
	for i, v := range out.Embeddings {
		vecs[i] = toFloat32(v)
	}
	return vecs, nil
}
