package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/plumechat/plume/internal/provider"
)

// Greeting seeds every new session. It is decoration, not context: it
// is never part of the history sent to the provider.
const Greeting = "Comment puis-je vous aider aujourd'hui ?"

// State of the workflow. At most one send is in flight at a time.
type State int

const (
	Idle State = iota
	Sending
)

// Submit rejections. Both are silent no-ops from the user's point of
// view: no transcript mutation, no error slot change.
var (
	ErrEmptyInput = errors.New("message is empty")
	ErrBusy       = errors.New("a message is already in flight")
)

// Sender is the slice of the provider client the workflow needs.
type Sender interface {
	SendMessage(ctx context.Context, modelID string, history []provider.ChatMessage) (string, error)
}

// Workflow owns one chat session's transcript. The transcript is
// append-only: entries are never edited or removed, and a failed send
// leaves the user's message visible as an unanswered turn. Errors are
// surfaced out-of-band through an error slot, never as transcript
// entries.
type Workflow struct {
	mu         sync.Mutex
	sender     Sender
	modelID    string
	state      State
	messages   []Message
	greetingID string
	lastErr    error
	nextSeq    int
	onChange   func()
}

// NewWorkflow starts a session: the transcript is reset to a single
// synthetic greeting. onChange, if non-nil, is invoked (outside the
// lock) after every transcript or state mutation.
func NewWorkflow(sender Sender, modelID string, onChange func()) *Workflow {
	w := &Workflow{
		sender:   sender,
		modelID:  modelID,
		onChange: onChange,
	}
	greeting := w.append(Assistant, Greeting)
	w.greetingID = greeting.ID
	return w
}

// Submit runs one send cycle. The user's message is appended before
// any network activity, so it is visible regardless of outcome. While
// a send is in flight, further submits return ErrBusy without touching
// any state.
func (w *Workflow) Submit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}

	w.mu.Lock()
	if w.state == Sending {
		w.mu.Unlock()
		return ErrBusy
	}
	w.lastErr = nil
	w.append(User, text)
	w.state = Sending
	history := w.historyLocked()
	w.mu.Unlock()
	w.notify()

	reply, err := w.sender.SendMessage(ctx, w.modelID, history)

	w.mu.Lock()
	w.state = Idle
	if err != nil {
		w.lastErr = err
	} else {
		w.append(Assistant, reply)
	}
	w.mu.Unlock()
	w.notify()

	return err
}

// Transcript returns a copy of the messages in order.
func (w *Workflow) Transcript() []Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Message, len(w.messages))
	copy(out, w.messages)
	return out
}

// State reports whether a send is in flight.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// LastError returns the error slot: the most recent failed send, or
// nil. It is cleared whenever a new send is attempted.
func (w *Workflow) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// SetOnChange replaces the change hook. Useful when the hook needs a
// reference to the workflow itself.
func (w *Workflow) SetOnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// append must be called with the lock held (or before the workflow is
// shared, as in NewWorkflow).
func (w *Workflow) append(author Author, text string) Message {
	w.nextSeq++
	msg := Message{
		ID:     messageID(w.nextSeq),
		Author: author,
		Text:   text,
	}
	w.messages = append(w.messages, msg)
	return msg
}

// historyLocked assembles the provider request context: the full
// transcript in order, greeting excluded, the new user turn last.
// No truncation, no summarization.
func (w *Workflow) historyLocked() []provider.ChatMessage {
	history := make([]provider.ChatMessage, 0, len(w.messages))
	for _, msg := range w.messages {
		if msg.ID == w.greetingID {
			continue
		}
		history = append(history, provider.ChatMessage{
			Role:    msg.Author.String(),
			Content: msg.Text,
		})
	}
	return history
}

func (w *Workflow) notify() {
	w.mu.Lock()
	fn := w.onChange
	w.mu.Unlock()
	if fn != nil {
		fn()
	}
}
