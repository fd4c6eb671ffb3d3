package update

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plumechat/plume/internal/dispatcher"
	"github.com/plumechat/plume/internal/eventbus"
	"github.com/plumechat/plume/internal/models"
	"github.com/plumechat/plume/internal/provider"
)

// HandleKeyMsg routes keyboard input to the active screen. Only UI
// state is touched here; everything durable goes through the bus.
func HandleKeyMsg(appModel *models.AppModel, keyMsg tea.KeyMsg, bus *eventbus.Bus) tea.Cmd {
	if keyMsg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch appModel.Screen {
	case models.ScreenSetup:
		return handleSetupKey(appModel, keyMsg, bus)
	case models.ScreenChat:
		return handleChatKey(appModel, keyMsg, bus)
	}
	return nil
}

func handleSetupKey(appModel *models.AppModel, keyMsg tea.KeyMsg, bus *eventbus.Bus) tea.Cmd {
	switch keyMsg.String() {
	case "esc":
		return tea.Quit
	case "up":
		if appModel.Cursor > 0 {
			appModel.Cursor--
		}
		return nil
	case "down":
		if appModel.Cursor < len(appModel.Models)-1 {
			appModel.Cursor++
		}
		return nil
	case "enter":
		if len(appModel.Models) == 0 {
			return nil
		}
		chosen := appModel.Models[appModel.Cursor]
		if err := bus.SendToCore(eventbus.SelectModelEvent{ID: chosen.ID}); err != nil {
			appModel.Status = "Error selecting model: " + err.Error()
		}
		return nil
	case "tab":
		if !appModel.Configured {
			appModel.Status = "Enter an API key and pick a model first"
			return nil
		}
		if err := bus.SendToCore(eventbus.OpenChatEvent{}); err != nil {
			appModel.Status = "Error opening chat: " + err.Error()
		}
		return nil
	}

	// Everything else edits the key field. Each keystroke is persisted
	// right away; validation follows once typing pauses.
	before := appModel.KeyInput.Value()
	var cmd tea.Cmd
	appModel.KeyInput, cmd = appModel.KeyInput.Update(keyMsg)
	after := appModel.KeyInput.Value()
	if after != before {
		if after == "" {
			appModel.KeyStatus = models.KeyUnknown
		} else {
			appModel.KeyStatus = models.KeyChecking
		}
		if err := bus.SendToCore(eventbus.SaveKeyEvent{Key: after}); err != nil {
			appModel.Status = "Error saving key: " + err.Error()
		}
	}
	return cmd
}

func handleChatKey(appModel *models.AppModel, keyMsg tea.KeyMsg, bus *eventbus.Bus) tea.Cmd {
	switch keyMsg.String() {
	case "esc":
		appModel.Screen = models.ScreenSetup
		appModel.ChatInput.Reset()
		appModel.ErrText = ""
		return nil
	case "enter":
		text := appModel.ChatInput.Value()
		if strings.TrimSpace(text) == "" {
			return nil
		}
		if appModel.Sending {
			appModel.Status = "Still waiting for the previous reply"
			return nil
		}
		if err := bus.SendToCore(eventbus.SendMessageEvent{Text: text}); err != nil {
			appModel.Status = "Error sending message: " + err.Error()
			return nil
		}
		appModel.ChatInput.Reset()
		return nil
	}

	var cmd tea.Cmd
	appModel.ChatInput, cmd = appModel.ChatInput.Update(keyMsg)
	return cmd
}

// HandleCoreEvent applies a core snapshot to the UI state.
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg dispatcher.CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.CatalogEvent:
		applyCatalog(appModel, event)
	case eventbus.ChatOpenedEvent:
		if event.Err != nil {
			appModel.Status = "Cannot open chat: " + errorText(event.Err)
			return nil
		}
		appModel.Screen = models.ScreenChat
		appModel.Transcript = event.Messages
		appModel.Sending = false
		appModel.ErrText = ""
		appModel.Status = "Ready"
		appModel.ChatInput.Focus()
	case eventbus.TranscriptEvent:
		if event.Messages != nil {
			appModel.Transcript = event.Messages
		}
		appModel.Sending = event.Sending
		if event.Err != nil {
			appModel.ErrText = errorText(event.Err)
		} else {
			appModel.ErrText = ""
		}
		if event.Sending {
			return appModel.Spinner.Tick
		}
	}
	return nil
}

func applyCatalog(appModel *models.AppModel, event eventbus.CatalogEvent) {
	appModel.Models = event.Models
	appModel.Selected = event.Selected
	appModel.Configured = event.Configured

	appModel.Cursor = 0
	for i, m := range event.Models {
		if m.ID == event.Selected {
			appModel.Cursor = i
			break
		}
	}

	switch {
	case event.Err != nil:
		appModel.KeyStatus = models.KeyInvalid
		appModel.Status = errorText(event.Err)
	case event.KeyValid:
		appModel.KeyStatus = models.KeyValid
		appModel.Status = "Ready"
	default:
		appModel.KeyStatus = models.KeyUnknown
		appModel.Status = "Enter your API key"
	}
}

// errorText folds the provider error taxonomy into one user-facing
// line.
func errorText(err error) string {
	var authErr *provider.AuthError
	if errors.As(err, &authErr) {
		return "Invalid API key"
	}
	var netErr *provider.NetworkError
	if errors.As(err, &netErr) {
		return "Network error, check your connection and retry"
	}
	return err.Error()
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

// HandleSpinnerTick advances the spinner only while a send is in
// flight; the tick chain dies on its own once the reply lands.
func HandleSpinnerTick(appModel *models.AppModel, msg spinner.TickMsg) tea.Cmd {
	if !appModel.Sending {
		return nil
	}
	var cmd tea.Cmd
	appModel.Spinner, cmd = appModel.Spinner.Update(msg)
	return cmd
}
