// Package models holds the UI-local state rendered by the views.
// Everything conversational comes from the core as snapshots; nothing
// here is a source of truth.
package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/plumechat/plume/internal/chat"
	"github.com/plumechat/plume/internal/provider"
)

// Screen identifies which view is active.
type Screen int

const (
	ScreenSetup Screen = iota
	ScreenChat
)

// KeyStatus is the setup screen's view of the API key.
type KeyStatus int

const (
	KeyUnknown KeyStatus = iota
	KeyChecking
	KeyValid
	KeyInvalid
)

// AppModel represents the UI state - only local UI concerns.
type AppModel struct {
	Screen Screen
	Width  int
	Height int
	Status string

	// Setup screen
	KeyInput   textinput.Model
	KeyStatus  KeyStatus
	Models     []provider.Model
	Cursor     int
	Selected   string
	Configured bool

	// Chat screen
	ChatInput  textinput.Model
	Transcript []chat.Message
	Sending    bool
	ErrText    string
	Spinner    spinner.Model
}
