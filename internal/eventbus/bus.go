// Package eventbus carries events between the UI and the core service
// over buffered channels, guarded by a circuit breaker so a wedged
// side cannot stall the other.
package eventbus

import (
	"errors"
	"time"

	"github.com/plumechat/plume/internal/chat"
	"github.com/plumechat/plume/internal/provider"
)

// UIEvent represents events sent from UI to Core.
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI.
type CoreEvent interface {
	CoreEvent()
}

// SaveKeyEvent - the user edited the API key; persist it immediately.
type SaveKeyEvent struct {
	Key string
}

func (e SaveKeyEvent) UIEvent() {}

// RefreshModelsEvent - re-validate the stored key by fetching the
// model catalog.
type RefreshModelsEvent struct{}

func (e RefreshModelsEvent) UIEvent() {}

// SelectModelEvent - the user picked a model; persist the selection.
type SelectModelEvent struct {
	ID string
}

func (e SelectModelEvent) UIEvent() {}

// OpenChatEvent - the user wants to enter the chat screen. The core
// answers with ChatOpenedEvent, refusing when unconfigured.
type OpenChatEvent struct{}

func (e OpenChatEvent) UIEvent() {}

// SendMessageEvent - submit one user message to the conversation.
type SendMessageEvent struct {
	Text string
}

func (e SendMessageEvent) UIEvent() {}

// CatalogEvent - snapshot of the configuration state: the deduplicated
// catalog, the persisted selection, whether the key was accepted by
// the provider, and whether the app is configured.
type CatalogEvent struct {
	Models     []provider.Model
	Selected   string
	KeyValid   bool
	Configured bool
	Err        error
}

func (e CatalogEvent) CoreEvent() {}

// ChatOpenedEvent - answer to OpenChatEvent. Err non-nil means entry
// was refused and the UI must stay on the setup screen.
type ChatOpenedEvent struct {
	Messages []chat.Message
	Err      error
}

func (e ChatOpenedEvent) CoreEvent() {}

// TranscriptEvent - snapshot of the conversation: messages, whether a
// send is in flight, and the out-of-band error slot.
type TranscriptEvent struct {
	Messages []chat.Message
	Sending  bool
	Err      error
}

func (e TranscriptEvent) CoreEvent() {}

// BusError represents errors in event delivery.
type BusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e BusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

// CircuitBreakerState represents the state of the circuit breaker.
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker trips after repeated delivery failures and lets the
// bus recover after a cooldown.
type CircuitBreaker struct {
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	if cb.state == CircuitOpen {
		if time.Since(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
		}
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.failureCount++
	cb.lastFailureTime = time.Now()

	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

// Bus handles communication between UI and Core.
type Bus struct {
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(BusError)
	circuitBreaker *CircuitBreaker
}

func NewBus() *Bus {
	return &Bus{
		uiToCore:       make(chan UIEvent, 100),
		coreToUI:       make(chan CoreEvent, 100),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (b *Bus) SetErrorCallback(callback func(BusError)) {
	b.errorCallback = callback
}

func (b *Bus) reportError(operation string, err error) {
	busError := BusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}

	b.circuitBreaker.RecordFailure()

	if b.errorCallback != nil {
		b.errorCallback(busError)
	}
}

func (b *Bus) SendToCore(event UIEvent) error {
	if b.circuitBreaker.IsOpen() {
		err := errors.New("circuit breaker is open")
		b.reportError("SendToCore", err)
		return err
	}

	select {
	case b.uiToCore <- event:
		b.circuitBreaker.RecordSuccess()
		return nil
	default:
		err := errors.New("UI to Core channel is full")
		b.reportError("SendToCore", err)
		return err
	}
}

func (b *Bus) SendToUI(event CoreEvent) error {
	if b.circuitBreaker.IsOpen() {
		err := errors.New("circuit breaker is open")
		b.reportError("SendToUI", err)
		return err
	}

	select {
	case b.coreToUI <- event:
		b.circuitBreaker.RecordSuccess()
		return nil
	default:
		err := errors.New("Core to UI channel is full")
		b.reportError("SendToUI", err)
		return err
	}
}

func (b *Bus) UIToCore() <-chan UIEvent {
	return b.uiToCore
}

func (b *Bus) CoreToUI() <-chan CoreEvent {
	return b.coreToUI
}

func (b *Bus) Close() {
	close(b.uiToCore)
	close(b.coreToUI)
}
