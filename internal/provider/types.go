package provider

import "time"

// Message roles on the wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of conversational context, in transcript order.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Model describes one model the current key can access.
type Model struct {
	ID          string
	DisplayName string
	Created     time.Time
}

// Wire shapes for the /v1 surface.

type modelsResponse struct {
	Data []modelEntry `json:"data"`
}

type modelEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created int64  `json:"created"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// streamChunk is the JSON fragment inside one "data: " frame.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// errorResponse covers both {"error":{"message":...}} and {"message":...}
// error body shapes the provider has been seen returning.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (e errorResponse) message() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}
	return e.Message
}
