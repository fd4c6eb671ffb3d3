// Package chat owns the conversation workflow: an append-only
// transcript and the single-flight send cycle against the provider.
package chat

import "strconv"

// Author identifies who wrote a message.
type Author int

const (
	User Author = iota
	Assistant
)

// String returns the provider-side role name for the author.
func (a Author) String() string {
	switch a {
	case User:
		return "user"
	case Assistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Message is one transcript entry. Immutable once created; IDs are
// unique and monotonic in creation order within a workflow.
type Message struct {
	ID     string
	Author Author
	Text   string
}

func messageID(seq int) string {
	return "msg_" + strconv.Itoa(seq)
}
