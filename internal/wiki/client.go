// Package wiki fetches article summaries from the Wikipedia REST API.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const DefaultBaseURL = "https://en.wikipedia.org/api/rest_v1"

// Wikimedia asks API clients to identify themselves.
const userAgent = "toolchat/1.0 (https://github.com/petasbytes/toolchat)"

// ErrNotFound is returned when no article exists for the topic.
var ErrNotFound = errors.New("wiki: article not found")

// Summary is the lead section of an article.
type Summary struct {
	Title   string `json:"title"`
	Extract string `json:"summary"`
	URL     string `json:"url"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Summary calls GET {BaseURL}/page/summary/{title}.
func (c *Client) Summary(ctx context.Context, topic string) (*Summary, error) {
	title := strings.ReplaceAll(strings.TrimSpace(topic), " ", "_")
	if title == "" {
		return nil, fmt.Errorf("wiki: empty topic")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/page/summary/"+url.PathEscape(title), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wiki request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wiki: reading response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wiki: HTTP %d: %s", resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("wiki: invalid JSON response")
	}

	r := gjson.ParseBytes(body)
	s := &Summary{
		Title:   r.Get("title").String(),
		Extract: r.Get("extract").String(),
		URL:     r.Get("content_urls.desktop.page").String(),
	}
	if s.Title == "" && s.Extract == "" {
		return nil, ErrNotFound
	}
	return s, nil
}
