package components

import (
	"strings"

	"github.com/plumechat/plume/internal/provider"
	"github.com/plumechat/plume/ui/styles"
)

// RenderModelPicker lists the catalog with the cursor row highlighted
// and the persisted selection marked.
func RenderModelPicker(models []provider.Model, cursor int, selected string) string {
	if len(models) == 0 {
		return styles.LabelStyle().Render("No models yet") + "\n"
	}

	var b strings.Builder
	itemStyle := styles.PickerItemStyle()
	cursorStyle := styles.PickerCursorStyle()

	for i, m := range models {
		line := "  " + m.DisplayName
		if m.ID == selected {
			line = "✓ " + m.DisplayName
		}
		if i == cursor {
			b.WriteString(cursorStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+line) + "\n")
		}
	}

	return b.String()
}
