package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		APIKey:       "test-key",
		APIBase:      srv.URL,
		Model:        "models/gemini-1.5-flash-latest",
		SystemPrompt: "You are the anatomy guide.",
		Tools:        []map[string]any{{"function_declarations": []any{}}},
	})
}

func TestGenerateContent_RequestShape(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "ok"}]}, "finishReason": "STOP"}]}`))
	})

	text := "hello"
	resp, err := client.GenerateContent(context.Background(), []Content{
		{Role: "user", Parts: []Part{{Text: &text}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(gotPath, "models/gemini-1.5-flash-latest:generateContent") {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("expected key query param, got %q", gotKey)
	}
	if _, ok := gotBody["system_instruction"]; !ok {
		t.Error("expected system_instruction in request body")
	}
	if _, ok := gotBody["tools"]; !ok {
		t.Error("expected tools in request body")
	}
	toolConfig, _ := gotBody["tool_config"].(map[string]any)
	fcc, _ := toolConfig["function_calling_config"].(map[string]any)
	if fcc["mode"] != "ANY" {
		t.Errorf("expected function calling mode ANY, got %v", fcc["mode"])
	}

	if len(resp.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(resp.Candidates))
	}
	if resp.Candidates[0].FinishReason != "STOP" {
		t.Errorf("unexpected finishReason %q", resp.Candidates[0].FinishReason)
	}
}

func TestGenerateContent_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	})

	_, err := client.GenerateContent(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "HTTP 429") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestGenerateContent_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := client.GenerateContent(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestConfigured(t *testing.T) {
	if NewClient(Options{}).Configured() {
		t.Error("expected unconfigured without an API key")
	}
	if !NewClient(Options{APIKey: "k"}).Configured() {
		t.Error("expected configured with an API key")
	}
}
