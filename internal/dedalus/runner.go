package dedalus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.dedaluslabs.ai/v1"

// HTTPRunner calls an OpenAI-compatible chat-completions endpoint and hands
// the decoded payload back without interpreting its shape.
type HTTPRunner struct {
	apiKey     string
	apiBase    string
	httpClient *http.Client
}

// NewHTTPRunner constructs the runner. A missing key fails construction;
// the bridge absorbs that failure per job.
func NewHTTPRunner(apiKey, apiBase string) (*HTTPRunner, error) {
	if apiKey == "" {
		return nil, errors.New("dedalus API key is not configured")
	}
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &HTTPRunner{
		apiKey:     apiKey,
		apiBase:    strings.TrimRight(apiBase, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Run implements Runner.
func (r *HTTPRunner) Run(ctx context.Context, prompt, model string) (any, error) {
	body := map[string]any{
		"model": model,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.apiBase+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}
