package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/petasbytes/toolchat/internal/embedding"
	"github.com/petasbytes/toolchat/internal/telemetry"
)

// Chroma talks to a Chroma server through its v2 HTTP API.
type Chroma struct {
	BaseURL  string
	Tenant   string
	Database string
	Embedder embedding.Embedder
	HTTP     *http.Client

	now func() time.Time
}

var _ Store = (*Chroma)(nil)

func NewChroma(baseURL, tenant, database string, e embedding.Embedder) *Chroma {
	return &Chroma{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		Tenant:   tenant,
		Database: database,
		Embedder: e,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		now:      time.Now,
	}
}

func (c *Chroma) collectionsURL() string {
	return fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s/collections",
		c.BaseURL, url.PathEscape(c.Tenant), url.PathEscape(c.Database))
}

func (c *Chroma) GetOrCreateCollection(ctx context.Context, name string) (*Collection, error) {
	body, err := c.post(ctx, c.collectionsURL(), map[string]any{
		"name":          name,
		"get_or_create": true,
	})
	if err != nil {
		return nil, fmt.Errorf("get or create collection %q: %w", name, err)
	}
	id := gjson.GetBytes(body, "id").String()
	if id == "" {
		return nil, fmt.Errorf("get or create collection %q: response has no id", name)
	}
	return &Collection{ID: id, Name: name}, nil
}

func (c *Chroma) AddDocuments(ctx context.Context, col *Collection, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	vecs, err := c.Embedder.Embed(ctx, texts, embedding.KindDocument)
	if err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	stamp := c.now().UnixMilli()
	ids := make([]string, len(texts))
	for i := range texts {
		ids[i] = fmt.Sprintf("doc-%d-%d", stamp, i)
	}
	_, err = c.post(ctx, c.collectionsURL()+"/"+url.PathEscape(col.ID)+"/add", map[string]any{
		"ids":        ids,
		"embeddings": vecs,
		"documents":  texts,
	})
	if err != nil {
		return fmt.Errorf("add documents to %q: %w", col.Name, err)
	}
	telemetry.Debugf("memory", "added %d documents to %s", len(texts), col.Name)
	return nil
}

func (c *Chroma) Query(ctx context.Context, col *Collection, text string, k int) ([]string, error) {
	if k <= 0 {
		return nil, fmt.Errorf("query %q: k must be positive, got %d", col.Name, k)
	}
	vecs, err := c.Embedder.Embed(ctx, []string{text}, embedding.KindQuery)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("query: embedder returned %d vectors", len(vecs))
	}
	body, err := c.post(ctx, c.collectionsURL()+"/"+url.PathEscape(col.ID)+"/query", map[string]any{
		"query_embeddings": vecs,
		"n_results":        k,
		"include":          []string{"documents", "distances"},
	})
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", col.Name, err)
	}

	// one query embedding, so one row of results
	docs := []string{}
	gjson.GetBytes(body, "documents.0").ForEach(func(_, v gjson.Result) bool {
		if v.Type != gjson.Null {
			docs = append(docs, v.String())
		}
		return true
	})
	telemetry.Debugf("memory", "query on %s matched %d documents", col.Name, len(docs))
	return docs, nil
}

func (c *Chroma) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chroma request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("chroma: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("chroma: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
