package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newGeminiTestServer(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewGeminiProvider(Config{
		APIKey:  "test-key",
		Model:   "gemini-2.0-flash",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	return provider
}

func TestGeminiProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiProvider(Config{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestGeminiProvider_Complete(t *testing.T) {
	provider := newGeminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query, got %q", r.URL.Query().Get("key"))
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "test prompt" {
			t.Errorf("unexpected request body: %+v", req)
		}

		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "model reply"}], "role": "model"}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 3, "candidatesTokenCount": 2, "totalTokenCount": 5}
		}`))
	})

	got, err := provider.Complete(context.Background(), "test prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "model reply" {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestGeminiProvider_APIErrorIsTransport(t *testing.T) {
	provider := newGeminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
	})

	_, err := provider.Complete(context.Background(), "test prompt")
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if !strings.Contains(transportErr.Error(), "quota exceeded") {
		t.Errorf("expected API message in error, got %q", transportErr.Error())
	}
}

func TestGeminiProvider_NoCandidatesIsTransport(t *testing.T) {
	provider := newGeminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	_, err := provider.Complete(context.Background(), "test prompt")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Errorf("expected *TransportError for empty candidates, got %T: %v", err, err)
	}
}

func TestGeminiProvider_MalformedBodyIsTransport(t *testing.T) {
	provider := newGeminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := provider.Complete(context.Background(), "test prompt")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Errorf("expected *TransportError for malformed body, got %T: %v", err, err)
	}
}
