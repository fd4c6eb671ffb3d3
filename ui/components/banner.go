package components

import "github.com/plumechat/plume/ui/styles"

// RenderErrorBanner shows the conversation's error slot. An empty slot
// renders nothing.
func RenderErrorBanner(errText string) string {
	if errText == "" {
		return ""
	}
	return styles.ErrorStyle().Render("⚠ "+errText) + "\n"
}
