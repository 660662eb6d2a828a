// Package openai is a minimal client for the OpenAI embeddings API, used as
// an alternative embedding oracle to VoyageAI.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/mpelletier/talentgraph/internal/retry"
)

const openaiBaseURL = "https://api.openai.com/v1"

const DefaultModel = "text-embedding-3-small"

// Client calls the OpenAI embeddings endpoint with retry logic.
type Client struct {
	APIKey      string
	HTTPClient  *http.Client
	RetryConfig retry.Config
	BaseURL     string
	Model       string
}

// EmbeddingsRequest is the request payload of POST /embeddings.
type EmbeddingsRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

// EmbeddingsResponse is the parsed response of POST /embeddings.
type EmbeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// APIError is a non-2xx or malformed response from the embeddings endpoint.
type APIError struct {
	Message    string
	StatusCode int
	RawBody    json.RawMessage
}

func (e *APIError) Error() string {
	return e.Message
}

// Creates a new Client
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:      apiKey,
		HTTPClient:  http.DefaultClient,
		RetryConfig: retry.DefaultConfig(),
		BaseURL:     openaiBaseURL,
		Model:       DefaultModel,
	}
}

// Sets the base URL for the client
func (c *Client) SetBaseURL(baseURL string) {
	c.BaseURL = baseURL
}

// Embeddings requests embeddings for a batch of texts with retry logic.
// Results are returned in input order.
func (c *Client) Embeddings(ctx context.Context, texts []string, dimensions int) ([][]float64, error) {
	url := c.BaseURL + "/embeddings"
	req := EmbeddingsRequest{
		Model:      c.Model,
		Input:      texts,
		Dimensions: dimensions,
	}

	bodyBytes, err := c.createAndRunRetryableRequest(ctx, url, req, "embeddings")
	if err != nil {
		return nil, err
	}

	var resp EmbeddingsResponse
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		return nil, &APIError{
			Message: fmt.Sprintf("failed to parse embeddings response: %v", err),
			RawBody: json.RawMessage(bodyBytes),
		}
	}
	if len(resp.Data) != len(texts) {
		return nil, &APIError{
			Message: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(resp.Data)),
			RawBody: json.RawMessage(bodyBytes),
		}
	}

	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, &APIError{Message: fmt.Sprintf("embedding index %d out of range", d.Index)}
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

// isRetryableError determines if an error should trigger a retry
func (c *Client) isRetryableError(err error, statusCode int, responseBody []byte) bool {
	// Retry on network errors
	if err != nil {
		return true
	}

	// Retry on server errors (5xx)
	if statusCode >= 500 {
		return true
	}

	// Retry on rate limiting (429)
	if statusCode == 429 {
		return true
	}

	return false
}

// createAndRunRetryableRequest executes an HTTP request with retry logic
func (c *Client) createAndRunRetryableRequest(ctx context.Context, url string, requestBody any, apiName string) ([]byte, error) {
	opts := retry.Options{
		Config:       c.RetryConfig,
		ErrorChecker: c.isRetryableError,
		Logger:       log.Printf,
		Op:           "OpenAI " + apiName,
	}

	result, err := retry.Execute(ctx, opts, c.buildRetryableFn(ctx, url, requestBody, apiName))
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// buildRetryableFn builds a retryable function for the given request body
func (c *Client) buildRetryableFn(ctx context.Context, url string, requestBody any, apiName string) retry.Func {
	return func(attempt int) (any, int, []byte, error) {
		body, err := json.Marshal(requestBody)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("failed to marshal %s request: %w", apiName, err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
		if err != nil {
			return nil, 0, nil, fmt.Errorf("failed to create HTTP request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTPClient.Do(httpReq)
		if err != nil {
			return nil, 0, nil, err
		}
		defer resp.Body.Close()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, resp.StatusCode, nil, fmt.Errorf("failed to read %s response body: %w", apiName, err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, resp.StatusCode, bodyBytes, &APIError{
				Message:    fmt.Sprintf("openai %s API error %d", apiName, resp.StatusCode),
				StatusCode: resp.StatusCode,
				RawBody:    json.RawMessage(bodyBytes),
			}
		}

		return bodyBytes, resp.StatusCode, bodyBytes, nil
	}
}
