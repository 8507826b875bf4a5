package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompleteSendsSystemAndUserMessages(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  hello reply  "}},
			},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	defer server.Close()

	client, err := NewClient("test-key", "gpt-4.1-mini", server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	got, err := client.Complete(context.Background(), "be terse", "say hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "hello reply" {
		t.Fatalf("expected trimmed reply, got %q", got)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[0].Content != "be terse" {
		t.Fatalf("unexpected system message: %+v", captured.Messages[0])
	}
	if captured.Messages[1].Role != "user" || captured.Messages[1].Content != "say hello" {
		t.Fatalf("unexpected user message: %+v", captured.Messages[1])
	}
	if captured.Temperature == nil || *captured.Temperature != 0 {
		t.Fatalf("expected temperature 0")
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "bad key", "type": "invalid_request_error"},
		})
	}))
	defer server.Close()

	client, err := NewClient("bad-key", "gpt-4.1-mini", server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Complete(context.Background(), "", "say hello")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "bad key") {
		t.Fatalf("expected provider message in error, got %v", err)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client, err := NewClient("test-key", "gpt-4.1-mini", server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Complete(context.Background(), "", "prompt"); err == nil {
		t.Fatalf("expected error for missing choices")
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "model", ""); err == nil {
		t.Fatalf("expected error for missing key")
	}
	if _, err := NewClient("key", "", ""); err == nil {
		t.Fatalf("expected error for missing model")
	}
}
