// Package app assembles the store, event bus, core service and
// Bubble Tea program into one lifecycle.
package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plumechat/plume/internal/core"
	"github.com/plumechat/plume/internal/dispatcher"
	"github.com/plumechat/plume/internal/eventbus"
	"github.com/plumechat/plume/internal/models"
	"github.com/plumechat/plume/internal/store"
)

// Application manages the complete application lifecycle.
type Application struct {
	store      *store.Store
	bus        *eventbus.Bus
	dispatcher *dispatcher.Dispatcher
	service    *core.ChatService
	model      *AppModel
}

func NewApplication() (*Application, error) {
	st, err := store.Open()
	if err != nil {
		return nil, err
	}

	bus := eventbus.NewBus()
	disp := dispatcher.New(bus)
	service := core.NewChatService(st, bus)

	model := &AppModel{
		ui:         createInitialAppModel(),
		dispatcher: disp,
	}

	return &Application{
		store:      st,
		bus:        bus,
		dispatcher: disp,
		service:    service,
		model:      model,
	}, nil
}

func (app *Application) Start() error {
	app.service.Start()

	p := tea.NewProgram(app.model)
	_, err := p.Run()
	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.bus.Close()
}

// createInitialAppModel builds empty UI state; catalog and gate
// snapshots arrive from the core right after Start.
func createInitialAppModel() models.AppModel {
	keyInput := textinput.New()
	keyInput.Placeholder = "sk-..."
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.EchoCharacter = '•'
	keyInput.Focus()

	chatInput := textinput.New()
	chatInput.Placeholder = "Say something"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return models.AppModel{
		Screen:    models.ScreenSetup,
		Status:    "Enter your API key",
		KeyInput:  keyInput,
		ChatInput: chatInput,
		Spinner:   sp,
	}
}
