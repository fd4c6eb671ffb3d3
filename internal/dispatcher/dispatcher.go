// Package dispatcher bridges core events into the Bubble Tea runtime.
package dispatcher

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plumechat/plume/internal/eventbus"
)

// CoreEventMsg wraps a core event as a Bubble Tea message.
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// Dispatcher routes events between core and UI.
type Dispatcher struct {
	bus    *eventbus.Bus
	ctx    context.Context
	cancel context.CancelFunc
}

func New(bus *eventbus.Bus) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		bus:    bus,
		ctx:    ctx,
		cancel: cancel,
	}
}

// ListenForCoreEvents returns a command that delivers the next core
// event to the UI. The UI re-issues it after every delivery to keep
// the pipe open.
func (d *Dispatcher) ListenForCoreEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-d.ctx.Done():
			return nil
		case event, ok := <-d.bus.CoreToUI():
			if !ok {
				return nil
			}
			return CoreEventMsg{Event: event}
		}
	}
}

func (d *Dispatcher) Stop() {
	d.cancel()
}

func (d *Dispatcher) Bus() *eventbus.Bus {
	return d.bus
}
