package components

import (
	"github.com/plumechat/plume/ui/styles"
)

func RenderStatus(status string, sending bool, spinnerView string, width int) string {
	content := status
	if sending {
		content = spinnerView + " Waiting for reply"
	}
	return styles.StatusStyle(width).Render(content)
}
