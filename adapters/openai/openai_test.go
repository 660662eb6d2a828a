package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mpelletier/talentgraph/internal/retry"
)

func fastRetry() retry.Config {
	return retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffMultiple: 2}
}

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key")

	if client.APIKey != "test-api-key" {
		t.Errorf("Expected APIKey %q, got %q", "test-api-key", client.APIKey)
	}
	if client.HTTPClient == nil {
		t.Error("Expected HTTPClient to be initialized")
	}
	if client.RetryConfig.MaxRetries == 0 {
		t.Error("Expected RetryConfig to be initialized with defaults")
	}
	if client.Model != DefaultModel {
		t.Errorf("Expected default model, got %q", client.Model)
	}
}

func TestEmbeddings_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("Unexpected auth header %q", got)
		}

		var req EmbeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}
		if len(req.Input) != 2 || req.Dimensions != 4 {
			t.Errorf("Unexpected request: %+v", req)
		}

		// Deliberately out of order; the client must reorder by index.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"index":1,"embedding":[0.5,0.6,0.7,0.8]},
			{"index":0,"embedding":[0.1,0.2,0.3,0.4]}
		]}`))
	}))
	defer server.Close()

	client := NewClient("key")
	client.SetBaseURL(server.URL)

	got, err := client.Embeddings(context.Background(), []string{"alpha", "beta"}, 4)
	if err != nil {
		t.Fatalf("Embeddings failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 embeddings, got %d", len(got))
	}
	if got[0][0] != 0.1 || got[1][0] != 0.5 {
		t.Errorf("Embeddings not ordered by index: %v", got)
	}
}

func TestEmbeddings_RetriesOn503(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1,0]}]}`))
	}))
	defer server.Close()

	client := NewClient("key")
	client.SetBaseURL(server.URL)
	client.RetryConfig = fastRetry()

	got, err := client.Embeddings(context.Background(), []string{"x"}, 2)
	if err != nil {
		t.Fatalf("Embeddings failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
	if got[0][0] != 1 {
		t.Errorf("Unexpected embedding %v", got)
	}
}

func TestEmbeddings_ClientErrorFailsFast(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	client := NewClient("key")
	client.SetBaseURL(server.URL)
	client.RetryConfig = fastRetry()

	_, err := client.Embeddings(context.Background(), []string{"x"}, 2)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", apiErr.StatusCode)
	}
	if calls != 1 {
		t.Errorf("Expected no retries on 401, got %d calls", calls)
	}
}

func TestEmbeddings_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	}))
	defer server.Close()

	client := NewClient("key")
	client.SetBaseURL(server.URL)

	_, err := client.Embeddings(context.Background(), []string{"a", "b"}, 1)
	if err == nil {
		t.Fatal("Expected error on embedding count mismatch")
	}
}
