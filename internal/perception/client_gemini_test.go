package perception

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func geminiTestClient(serverURL string) *GeminiClient {
	return NewGeminiClientWithConfig(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Model:   "gemini-2.5-flash",
		Timeout: 5 * time.Second,
	})
}

func TestGeminiClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  COMSATS  "}],"role":"model"}}]}`))
	}))
	defer server.Close()

	client := geminiTestClient(server.URL)
	got, err := client.Complete(context.Background(), "which university?")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "COMSATS" {
		t.Errorf("expected trimmed COMSATS, got %q", got)
	}
}

func TestGeminiClient_RetriesRateLimit(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer server.Close()

	client := geminiTestClient(server.URL)
	got, err := client.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected ok, got %q", got)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestGeminiClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"code":400,"message":"bad prompt","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	client := geminiTestClient(server.URL)
	if _, err := client.Complete(context.Background(), "hi"); err == nil {
		t.Fatal("expected error from API error payload")
	}
}

func TestGeminiClient_NoAPIKey(t *testing.T) {
	client := NewGeminiClient("")
	if _, err := client.Complete(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
