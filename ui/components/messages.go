package components

import (
	"strings"

	"github.com/plumechat/plume/internal/chat"
	"github.com/plumechat/plume/internal/markdown"
	"github.com/plumechat/plume/ui/styles"
)

func RenderMessages(messages []chat.Message) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()

	for _, msg := range messages {
		switch msg.Author {
		case chat.User:
			b.WriteString(userStyle.Render("You: "+msg.Text) + "\n\n")
		case chat.Assistant:
			b.WriteString(assistantStyle.Render("Assistant: "+markdown.Render(msg.Text)) + "\n\n")
		}
	}

	return b.String()
}
