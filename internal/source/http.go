package source

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

	"github.com/roach88/times/internal/ir"
)

// DefaultBaseURL is the public mock REST API.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// DefaultTimeout bounds a single request when the caller's context has no deadline.
const DefaultTimeout = 10 * time.Second

// StatusError reports an unexpected HTTP status from the data source.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// HTTP reads posts from a JSONPlaceholder-compatible REST API:
//
//	GET {base}/posts      -> [{id, title, body}, ...]
//	GET {base}/posts/{id} -> {id, title, body} or 404
type HTTP struct {
	base   string
	client *http.Client
}

// NewHTTP creates an HTTP source. A nil client uses a client with DefaultTimeout.
func NewHTTP(baseURL string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTP{
		base:   strings.TrimRight(baseURL, "/"),
		client: client,
	}
}

// wirePost mirrors the API payload. Ids arrive as JSON numbers.
type wirePost struct {
	ID    json.RawMessage `json:"id"`
	Title string          `json:"title"`
	Body  string          `json:"body"`
}

func (w wirePost) toPost() (ir.Post, error) {
	id, err := decodeID(w.ID)
	if err != nil {
		return ir.Post{}, err
	}
	return ir.Post{ID: id, Title: w.Title, Body: w.Body}, nil
}

// decodeID accepts either a JSON number or a JSON string.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("post has no id")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decode id: %w", err)
	}
	return n.String(), nil
}

// ListPosts fetches every post.
func (h *HTTP) ListPosts(ctx context.Context) ([]ir.Post, error) {
	var wire []wirePost
	if err := h.get(ctx, "/posts", &wire); err != nil {
		return nil, err
	}

	posts := make([]ir.Post, 0, len(wire))
	for i, w := range wire {
		p, err := w.toPost()
		if err != nil {
			return nil, fmt.Errorf("list posts: item %d: %w", i, err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// GetPost fetches one post. A 404 maps to ErrNotFound.
func (h *HTTP) GetPost(ctx context.Context, id string) (ir.Post, error) {
	var wire wirePost
	if err := h.get(ctx, "/posts/"+url.PathEscape(id), &wire); err != nil {
		return ir.Post{}, err
	}
	p, err := wire.toPost()
	if err != nil {
		return ir.Post{}, fmt.Errorf("get post %q: %w", id, err)
	}
	return p, nil
}

func (h *HTTP) get(ctx context.Context, path string, out any) error {
	u := h.base + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("GET %s: %w", u, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: u, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", u, err)
	}
	return nil
}
