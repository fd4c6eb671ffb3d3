package components

import (
	"strings"

	"github.com/plumechat/plume/internal/models"
	"github.com/plumechat/plume/ui/styles"
)

func RenderSetup(appModel models.AppModel) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle().Render("Plume") + "\n\n")
	b.WriteString(styles.LabelStyle().Render("API key") + "\n")
	b.WriteString(RenderInput(appModel.KeyInput, appModel.Width) + "\n")
	b.WriteString(renderKeyStatus(appModel.KeyStatus) + "\n\n")

	b.WriteString(styles.LabelStyle().Render("Model") + "\n")
	b.WriteString(RenderModelPicker(appModel.Models, appModel.Cursor, appModel.Selected))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle().Render("↑/↓ pick model · enter select · tab open chat · esc quit") + "\n")

	return b.String()
}

func renderKeyStatus(status models.KeyStatus) string {
	switch status {
	case models.KeyChecking:
		return styles.LabelStyle().Render("Checking key…")
	case models.KeyValid:
		return styles.KeyValidStyle().Render("Key accepted")
	case models.KeyInvalid:
		return styles.KeyInvalidStyle().Render("Key rejected")
	default:
		return styles.LabelStyle().Render("Paste your Mistral API key")
	}
}
