package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plumechat/plume/internal/dispatcher"
	"github.com/plumechat/plume/internal/models"
	"github.com/plumechat/plume/internal/update"
	"github.com/plumechat/plume/ui/components"
)

type AppModel struct {
	ui         models.AppModel
	dispatcher *dispatcher.Dispatcher
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Core events re-arm the listener so the pipe stays open.
	if coreEvent, ok := msg.(dispatcher.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.ui, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	cmd := update.HandleUpdate(&m.ui, msg, m.dispatcher.Bus())
	return m, cmd
}

func (m *AppModel) View() string {
	if m.ui.Screen == models.ScreenSetup {
		return components.RenderSetup(m.ui)
	}

	var b strings.Builder
	b.WriteString(components.RenderMessages(m.ui.Transcript))
	b.WriteString(components.RenderErrorBanner(m.ui.ErrText))
	b.WriteString(components.RenderInput(m.ui.ChatInput, m.ui.Width))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.ui.Status, m.ui.Sending, m.ui.Spinner.View(), m.ui.Width))
	return b.String()
}
