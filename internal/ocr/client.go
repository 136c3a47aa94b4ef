// Package ocr talks to the OCR HTTP service and turns its word-level output
// into click candidates.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultAnalyzeTimeout bounds a single analyze request.
	DefaultAnalyzeTimeout = 30 * time.Second
	// DefaultHealthTimeout bounds a single health check.
	DefaultHealthTimeout = 10 * time.Second

	maxErrorBody = 512
)

// Client calls the OCR service at a fixed base endpoint.
type Client struct {
	endpoint       string
	httpClient     *http.Client
	analyzeTimeout time.Duration
	healthTimeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeouts overrides the analyze and health timeouts. Zero keeps the default.
func WithTimeouts(analyze, health time.Duration) Option {
	return func(c *Client) {
		if analyze > 0 {
			c.analyzeTimeout = analyze
		}
		if health > 0 {
			c.healthTimeout = health
		}
	}
}

// NewClient returns a client for endpoint. A trailing slash is tolerated.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:       strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		httpClient:     http.DefaultClient,
		analyzeTimeout: DefaultAnalyzeTimeout,
		healthTimeout:  DefaultHealthTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the normalized base endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// HTTPError is returned when the service answers with a non-2xx status.
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ocr %s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("ocr %s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

// Health reports whether the service answers GET /health with status "ok".
// Every failure, including a timeout, yields false.
func (c *Client) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.Status == "ok"
}

// AnalyzeFile uploads the PNG at path and returns the parsed document.
func (c *Client) AnalyzeFile(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading capture: %w", err)
	}
	return c.Analyze(ctx, filepath.Base(path), data)
}

// Analyze uploads PNG bytes as the multipart field "file" to
// POST /analyze?format=json. Non-2xx responses and undecodable bodies are errors.
func (c *Client) Analyze(ctx context.Context, filename string, png []byte) (*Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.analyzeTimeout)
	defer cancel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if _, err := part.Write(png); err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/analyze?format=json", &buf)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr analyze: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ocr analyze: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &HTTPError{Op: "analyze", StatusCode: resp.StatusCode, Body: snippet}
	}
	doc, err := ParseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("ocr analyze: decoding response: %w", err)
	}
	return doc, nil
}
