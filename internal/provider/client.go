// Package provider wraps the Mistral chat API: listing models and
// exchanging chat completions, in unary or streaming form.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.mistral.ai/v1"

// Request constants inherited from the app this client serves. History
// is sent whole; the provider's own limits are the only cap.
const (
	requestTemperature = 0.7
	requestMaxTokens   = 1000
)

// ClientConfig holds construction options for the provider client.
type ClientConfig struct {
	// APIKey is bound for the lifetime of the client. A changed key
	// requires a new client, never an in-place mutation.
	APIKey string

	// BaseURL of the /v1 API surface (default: the Mistral cloud).
	BaseURL string

	// Timeout for unary requests. Streaming requests inherit only the
	// connection behavior of the underlying transport.
	Timeout time.Duration

	// Logger receives stream diagnostics (malformed frames). Defaults
	// to a discard logger: the TUI owns the terminal.
	Logger *log.Logger
}

// Client talks to the remote chat API with one fixed API key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a client for the given key with default configuration.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(&ClientConfig{APIKey: apiKey})
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = &ClientConfig{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		logger:  cfg.Logger,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ListModels retrieves the models the current key can access, in the
// order the provider returns them. Duplicates are not filtered here;
// that is the catalog's policy.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	resp, err := c.do(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var result modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to decode model list: %v", err),
		}
	}

	models := make([]Model, 0, len(result.Data))
	for _, entry := range result.Data {
		name := entry.Name
		if name == "" {
			name = entry.ID
		}
		models = append(models, Model{
			ID:          entry.ID,
			DisplayName: name,
			Created:     time.Unix(entry.Created, 0),
		})
	}
	return models, nil
}

// SendMessage issues one unary chat completion and returns the
// assistant's text. History must already be in transcript order with
// the new user turn last.
func (c *Client) SendMessage(ctx context.Context, modelID string, history []ChatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       modelID,
		Messages:    history,
		Temperature: requestTemperature,
		MaxTokens:   requestMaxTokens,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/chat/completions", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return "", err
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to decode chat response: %v", err),
		}
	}

	if len(result.Choices) == 0 {
		return "", &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    "response contained no completion choices",
		}
	}
	return result.Choices[0].Message.Content, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &NetworkError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Cause: err}
	}
	return resp, nil
}

// checkStatus maps non-2xx responses onto the error taxonomy. It drains
// the body looking for a provider-supplied message.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var message string
	var errBody errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
		message = errBody.message()
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode, Message: message}
	default:
		return &ProviderError{StatusCode: resp.StatusCode, Message: message}
	}
}
