package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"tripweaver/internal/adapters/openai"
)

func chatReply(content string) []byte {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return b
}

func TestGenerate_ReturnsMessageContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("auth header = %q", got)
		}
		var req struct {
			Model          string `json:"model"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" || req.ResponseFormat.Type != "json_object" {
			t.Errorf("unexpected request: %+v", req)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "plan paris" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		w.Write(chatReply("  {\"destination\":\"Paris\"}\n"))
	}))
	defer srv.Close()

	got, err := openai.New(srv.URL, "sk-test", "test-model").Generate(context.Background(), "plan paris")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"destination":"Paris"}` {
		t.Fatalf("content not trimmed/returned: %q", got)
	}
}

func TestGenerate_RetriesOn429(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(chatReply("{}"))
	}))
	defer srv.Close()

	got, err := openai.New(srv.URL, "k", "m").Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate after 429: %v", err)
	}
	if got != "{}" {
		t.Fatalf("unexpected content: %q", got)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("expected 2 attempts, got %d", n)
	}
}

func TestGenerate_PermanentErrorDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "context length exceeded"}}`))
	}))
	defer srv.Close()

	_, err := openai.New(srv.URL, "k", "m").Generate(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "context length exceeded") {
		t.Fatalf("expected the provider message, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("4xx must not retry, got %d attempts", n)
	}
}

func TestGenerate_EmptyChoicesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	_, err := openai.New(srv.URL, "k", "m").Generate(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Fatalf("expected a no-choices error, got %v", err)
	}
}

func TestGenerate_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cancel()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := openai.New(srv.URL, "k", "m").Generate(ctx, "p")
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
