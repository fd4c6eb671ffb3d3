package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithConfig(&ClientConfig{
		APIKey:  "sk-test",
		BaseURL: server.URL,
	})
}

func TestListModels_ParsesAndFallsBackToID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":"mistral-small","name":"Mistral Small","created":1700000000},
			{"id":"mistral-tiny","created":1690000000}
		]}`))
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)

	assert.Equal(t, "mistral-small", models[0].ID)
	assert.Equal(t, "Mistral Small", models[0].DisplayName)
	assert.Equal(t, int64(1700000000), models[0].Created.Unix())

	assert.Equal(t, "mistral-tiny", models[1].ID)
	assert.Equal(t, "mistral-tiny", models[1].DisplayName, "missing name falls back to id")
}

func TestListModels_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
	})

	_, err := client.ListModels(context.Background())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Contains(t, authErr.Error(), "Unauthorized")
}

func TestSendMessage_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral-small", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, requestTemperature, req.Temperature)
		assert.Equal(t, requestMaxTokens, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, RoleAssistant, req.Messages[0].Role)
		assert.Equal(t, RoleUser, req.Messages[1].Role)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Hi there"}}]}`))
	})

	history := []ChatMessage{
		{Role: RoleAssistant, Content: "Earlier reply"},
		{Role: RoleUser, Content: "Hello"},
	}
	text, err := client.SendMessage(context.Background(), "mistral-small", history)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", text)
}

func TestSendMessage_ProviderErrorCarriesMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	})

	_, err := client.SendMessage(context.Background(), "mistral-small", nil)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode)
	assert.Equal(t, "rate limit exceeded", provErr.Error())
}

func TestSendMessage_ProviderErrorWithoutBodyMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.SendMessage(context.Background(), "mistral-small", nil)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Error(), "500", "falls back to a status-derived message")
}

func TestSendMessage_NoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.SendMessage(context.Background(), "mistral-small", nil)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
}

func TestSendMessage_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClientWithConfig(&ClientConfig{APIKey: "sk-test", BaseURL: server.URL})
	server.Close() // nothing is listening anymore

	_, err := client.SendMessage(context.Background(), "mistral-small", nil)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Error(t, netErr.Unwrap())
}
