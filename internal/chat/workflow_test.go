package chat

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumechat/plume/internal/provider"
)

type fakeSender struct {
	mu        sync.Mutex
	reply     string
	err       error
	histories [][]provider.ChatMessage

	// When set, SendMessage blocks until the channel is closed.
	gate chan struct{}
}

func (f *fakeSender) SendMessage(ctx context.Context, modelID string, history []provider.ChatMessage) (string, error) {
	f.mu.Lock()
	copied := make([]provider.ChatMessage, len(history))
	copy(copied, history)
	f.histories = append(f.histories, copied)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return f.reply, f.err
}

func (f *fakeSender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.histories)
}

func texts(messages []Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.Text
	}
	return out
}

func TestNewWorkflow_SeedsGreeting(t *testing.T) {
	w := NewWorkflow(&fakeSender{}, "mistral-small", nil)

	transcript := w.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, Assistant, transcript[0].Author)
	assert.Equal(t, Greeting, transcript[0].Text)
	assert.Equal(t, Idle, w.State())
}

func TestSubmit_SuccessAppendsAssistantReply(t *testing.T) {
	sender := &fakeSender{reply: "Hi there"}
	w := NewWorkflow(sender, "mistral-small", nil)

	require.NoError(t, w.Submit(context.Background(), "Hello"))

	assert.Equal(t, []string{Greeting, "Hello", "Hi there"}, texts(w.Transcript()))
	assert.Equal(t, Idle, w.State())
	assert.NoError(t, w.LastError())
}

func TestSubmit_GreetingExcludedFromHistory(t *testing.T) {
	sender := &fakeSender{reply: "Hi there"}
	w := NewWorkflow(sender, "mistral-small", nil)

	require.NoError(t, w.Submit(context.Background(), "Hello"))

	require.Len(t, sender.histories, 1)
	assert.Equal(t, []provider.ChatMessage{
		{Role: "user", Content: "Hello"},
	}, sender.histories[0], "the greeting is decorative, not context")
}

func TestSubmit_HistoryCarriesPriorTurnsInOrder(t *testing.T) {
	sender := &fakeSender{reply: "first reply"}
	w := NewWorkflow(sender, "mistral-small", nil)

	require.NoError(t, w.Submit(context.Background(), "first question"))

	sender.reply = "second reply"
	require.NoError(t, w.Submit(context.Background(), "second question"))

	require.Len(t, sender.histories, 2)
	assert.Equal(t, []provider.ChatMessage{
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "first reply"},
		{Role: "user", Content: "second question"},
	}, sender.histories[1])
}

func TestSubmit_FailureKeepsUserTurnAndSetsErrorSlot(t *testing.T) {
	netErr := &provider.NetworkError{Cause: context.DeadlineExceeded}
	sender := &fakeSender{err: netErr}
	w := NewWorkflow(sender, "mistral-small", nil)

	err := w.Submit(context.Background(), "Hello")
	require.Error(t, err)

	assert.Equal(t, []string{Greeting, "Hello"}, texts(w.Transcript()),
		"the user turn stays visible as unanswered; no assistant entry")
	assert.Equal(t, Idle, w.State())
	assert.ErrorAs(t, w.LastError(), &netErr)
}

func TestSubmit_ErrorSlotClearedOnNextAttempt(t *testing.T) {
	sender := &fakeSender{err: &provider.NetworkError{Cause: context.DeadlineExceeded}}
	w := NewWorkflow(sender, "mistral-small", nil)

	require.Error(t, w.Submit(context.Background(), "Hello"))
	require.Error(t, w.LastError())

	sender.err = nil
	sender.reply = "Hi there"
	require.NoError(t, w.Submit(context.Background(), "Hello again"))
	assert.NoError(t, w.LastError())
}

func TestSubmit_BlankInputIsRejectedWithoutStateChange(t *testing.T) {
	sender := &fakeSender{reply: "unused"}
	w := NewWorkflow(sender, "mistral-small", nil)
	before := w.Transcript()

	assert.ErrorIs(t, w.Submit(context.Background(), ""), ErrEmptyInput)
	assert.ErrorIs(t, w.Submit(context.Background(), "   "), ErrEmptyInput)
	assert.ErrorIs(t, w.Submit(context.Background(), "\n\t "), ErrEmptyInput)

	assert.Equal(t, before, w.Transcript())
	assert.Zero(t, sender.calls())
	assert.Equal(t, Idle, w.State())
}

func TestSubmit_AppendOnlyTranscript(t *testing.T) {
	sender := &fakeSender{reply: "ok"}
	w := NewWorkflow(sender, "mistral-small", nil)

	prev := w.Transcript()
	inputs := []string{"one", "", "two", "   ", "three"}
	for i, input := range inputs {
		if i == 3 {
			sender.err = &provider.ProviderError{StatusCode: 500}
		}
		_ = w.Submit(context.Background(), input)

		next := w.Transcript()
		require.GreaterOrEqual(t, len(next), len(prev))
		assert.Equal(t, prev, next[:len(prev)], "prior entries must be an exact prefix")
		prev = next
	}
}

func TestSubmit_MessageIDsAreUniqueAndMonotonic(t *testing.T) {
	sender := &fakeSender{reply: "ok"}
	w := NewWorkflow(sender, "mistral-small", nil)
	require.NoError(t, w.Submit(context.Background(), "one"))
	require.NoError(t, w.Submit(context.Background(), "two"))

	transcript := w.Transcript()
	seen := map[string]bool{}
	prevSeq := 0
	for _, m := range w.Transcript() {
		assert.False(t, seen[m.ID], "duplicate id %q", m.ID)
		seen[m.ID] = true

		seq, err := strconv.Atoi(strings.TrimPrefix(m.ID, "msg_"))
		require.NoError(t, err)
		assert.Greater(t, seq, prevSeq, "ids grow with creation order")
		prevSeq = seq
	}
	require.Len(t, transcript, 5)
}

func TestSubmit_SingleFlight(t *testing.T) {
	gate := make(chan struct{})
	sender := &fakeSender{reply: "only one", gate: gate}
	w := NewWorkflow(sender, "mistral-small", nil)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- w.Submit(context.Background(), "first")
	}()

	// Wait until the first send is in flight.
	require.Eventually(t, func() bool {
		return w.State() == Sending
	}, time.Second, time.Millisecond)

	err := w.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(gate)
	require.NoError(t, <-firstDone)

	assert.Equal(t, 1, sender.calls(), "never two concurrent provider calls")
	assert.Equal(t, []string{Greeting, "first", "only one"}, texts(w.Transcript()),
		"the rejected submit leaves no trace")
}

func TestSubmit_KeepsRawInputText(t *testing.T) {
	sender := &fakeSender{reply: "ok"}
	w := NewWorkflow(sender, "mistral-small", nil)

	require.NoError(t, w.Submit(context.Background(), "  padded  "))

	transcript := w.Transcript()
	assert.Equal(t, "  padded  ", transcript[1].Text)
	assert.Equal(t, "  padded  ", sender.histories[0][0].Content)
}

func TestWorkflow_OnChangeFiresAroundSend(t *testing.T) {
	var mu sync.Mutex
	var snapshots []int

	sender := &fakeSender{reply: "ok"}
	var w *Workflow
	w = NewWorkflow(sender, "mistral-small", func() {
		mu.Lock()
		snapshots = append(snapshots, len(w.Transcript()))
		mu.Unlock()
	})

	require.NoError(t, w.Submit(context.Background(), "Hello"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, snapshots, 2)
	assert.Equal(t, 2, snapshots[0], "user message visible before the reply arrives")
	assert.Equal(t, 3, snapshots[1])
}
