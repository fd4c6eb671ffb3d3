package components

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/plumechat/plume/ui/styles"
)

func RenderInput(input textinput.Model, width int) string {
	return styles.InputStyle(width).Render(input.View())
}
