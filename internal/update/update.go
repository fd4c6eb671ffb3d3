package update

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plumechat/plume/internal/dispatcher"
	"github.com/plumechat/plume/internal/eventbus"
	"github.com/plumechat/plume/internal/models"
)

func HandleUpdate(appModel *models.AppModel, msg tea.Msg, bus *eventbus.Bus) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(appModel, msg, bus)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return nil
	case spinner.TickMsg:
		return HandleSpinnerTick(appModel, msg)
	case dispatcher.CoreEventMsg:
		return HandleCoreEvent(appModel, msg)
	}
	return nil
}
