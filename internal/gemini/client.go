package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoCandidates reports a well-formed backend response that carried zero
// candidates. Callers treat it as a protocol failure distinct from transport
// errors.
var ErrNoCandidates = errors.New("gemini returned no candidates")

const defaultAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// Options configures a Client. SystemPrompt and Tools are opaque
// configuration data included verbatim in every request.
type Options struct {
	APIKey       string
	APIBase      string
	Model        string
	SystemPrompt string
	Tools        []map[string]any
	HTTPClient   *http.Client
}

// Client calls the generateContent endpoint of the primary backend.
// Safe for concurrent use.
type Client struct {
	apiKey       string
	apiBase      string
	model        string
	systemPrompt string
	tools        []map[string]any
	httpClient   *http.Client
}

// NewClient constructs a Client from opts. An empty API key is allowed and
// leaves the client unconfigured; callers check Configured before dispatch.
func NewClient(opts Options) *Client {
	apiBase := opts.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		apiKey:       opts.APIKey,
		apiBase:      strings.TrimRight(apiBase, "/"),
		model:        opts.Model,
		systemPrompt: opts.SystemPrompt,
		tools:        opts.Tools,
		httpClient:   httpClient,
	}
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// GenerateContent sends the converted conversation to the backend and
// returns its parsed response. Tool calling is forced to mode ANY so the
// model always considers the catalog.
func (c *Client) GenerateContent(ctx context.Context, contents []Content) (*GenerateResponse, error) {
	body := generateRequest{
		Contents: contents,
		Tools:    c.tools,
		ToolConfig: map[string]any{
			"function_calling_config": map[string]any{
				"mode": "ANY",
			},
		},
	}
	if c.systemPrompt != "" {
		body.SystemInstruction = &systemInstruction{Parts: []Part{textPart(c.systemPrompt)}}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s",
		c.apiBase, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncateBody(raw))
	}

	var parsed GenerateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &parsed, nil
}

// truncateBody keeps error messages diagnosable without echoing an entire
// payload into the logs.
func truncateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 300 {
		return body[:300] + "..."
	}
	return body
}
