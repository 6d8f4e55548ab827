package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newGeneratorServer(t *testing.T, status int, body interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
}

// TestGenerateCaptionTrimsResult verifies a successful completion comes back
// with surrounding whitespace stripped.
func TestGenerateCaptionTrimsResult(t *testing.T) {
	server := newGeneratorServer(t, http.StatusOK, map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": "  Much wow \n"}},
		},
	})
	defer server.Close()

	gen := NewGeneratorService(&GeneratorConfig{Model: "test-model", BaseURL: server.URL})
	got, err := gen.GenerateCaption(context.Background(), "Doge", []string{"crypto"})
	if err != nil {
		t.Fatalf("GenerateCaption: %v", err)
	}
	if got != "Much wow" {
		t.Errorf("caption = %q, want %q", got, "Much wow")
	}
}

// TestGenerateCaptionHTTPError verifies non-2xx responses surface the status
// code and the upstream message.
func TestGenerateCaptionHTTPError(t *testing.T) {
	server := newGeneratorServer(t, http.StatusTooManyRequests, map[string]interface{}{
		"error": map[string]string{"message": "rate limited", "type": "rate_limit_error"},
	})
	defer server.Close()

	gen := NewGeneratorService(&GeneratorConfig{Model: "test-model", BaseURL: server.URL})
	_, err := gen.GenerateCaption(context.Background(), "Doge", []string{"crypto"})
	if err == nil {
		t.Fatal("expected error for HTTP 429 response")
	}
	if !strings.Contains(err.Error(), "HTTP 429") {
		t.Errorf("err = %v, want HTTP 429 in message", err)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v, want upstream message included", err)
	}
}

// TestGenerateVibeEmptyChoices verifies an empty choices array is an error,
// which the service layer turns into the fallback vibe.
func TestGenerateVibeEmptyChoices(t *testing.T) {
	server := newGeneratorServer(t, http.StatusOK, map[string]interface{}{
		"choices": []interface{}{},
	})
	defer server.Close()

	gen := NewGeneratorService(&GeneratorConfig{Model: "test-model", BaseURL: server.URL})
	if _, err := gen.GenerateVibe(context.Background(), []string{"crypto"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
