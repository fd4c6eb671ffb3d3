package provider

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// doneSentinel terminates a streaming response cleanly.
const doneSentinel = "[DONE]"

// StreamReader decodes a "data: "-framed event stream into a
// forward-only sequence of text deltas. One reader serves exactly one
// request; a retry means a new request and a new reader.
type StreamReader struct {
	reader      *bufio.Reader
	accumulator strings.Builder
	malformed   int
	logger      *log.Logger
}

// NewStreamReader wraps a response body.
func NewStreamReader(r io.Reader, logger *log.Logger) *StreamReader {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &StreamReader{
		reader: bufio.NewReader(r),
		logger: logger,
	}
}

// Next returns the next content delta. done reports that the stream
// ended, either via the [DONE] sentinel or the end of the body.
// Malformed frames are logged and skipped, never fatal.
func (s *StreamReader) Next() (delta string, done bool, err error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return "", true, nil
			}
			return "", true, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		payload, found := strings.CutPrefix(line, "data: ")
		if !found {
			s.malformed++
			s.logger.Printf("stream: skipping unframed line %q", line)
			continue
		}

		if payload == doneSentinel {
			return "", true, nil
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			s.malformed++
			s.logger.Printf("stream: skipping malformed fragment: %v", err)
			continue
		}

		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta.Content
		s.accumulator.WriteString(delta)
		return delta, false, nil
	}
}

// Accumulated returns every delta read so far, concatenated in arrival
// order.
func (s *StreamReader) Accumulated() string {
	return s.accumulator.String()
}

// Malformed returns how many frames were skipped. Diagnostics only.
func (s *StreamReader) Malformed() int {
	return s.malformed
}

// SendMessageStream issues a streaming chat completion. onDelta is
// invoked for each non-empty content delta in arrival order; the full
// assistant text is returned once the stream terminates. It maps
// failures to the same taxonomy as SendMessage.
func (c *Client) SendMessageStream(ctx context.Context, modelID string, history []ChatMessage, onDelta func(string)) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       modelID,
		Messages:    history,
		Temperature: requestTemperature,
		MaxTokens:   requestMaxTokens,
		Stream:      true,
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

	reader := NewStreamReader(resp.Body, c.logger)
	for {
		select {
		case <-ctx.Done():
			return reader.Accumulated(), &NetworkError{Cause: ctx.Err()}
		default:
		}

		delta, done, err := reader.Next()
		if err != nil {
			return reader.Accumulated(), &NetworkError{Cause: err}
		}
		if delta != "" && onDelta != nil {
			onDelta(delta)
		}
		if done {
			if n := reader.Malformed(); n > 0 {
				c.logger.Printf("stream: %d malformed fragment(s) skipped", n)
			}
			return reader.Accumulated(), nil
		}
	}
}
