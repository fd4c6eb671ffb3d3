// Package markdown renders the subset of markdown that chat replies
// actually use: fenced code, headings, lists and inline emphasis.
// Anything it does not recognize passes through untouched.
package markdown

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	codeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Padding(0, 1)
	headingStyle = lipgloss.NewStyle().Bold(true)
	listStyle    = lipgloss.NewStyle().MarginLeft(2)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	italicStyle  = lipgloss.NewStyle().Italic(true)

	orderedItemRe = regexp.MustCompile(`^(\d+)\.\s+(.*)`)
	inlineCodeRe  = regexp.MustCompile("`[^`]+`")
	boldRe        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe      = regexp.MustCompile(`\*([^*]+)\*`)
)

// Render formats one assistant reply for the terminal.
func Render(text string) string {
	var b strings.Builder
	inFence := false

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			b.WriteString(codeStyle.Render(line) + "\n")
			continue
		}
		b.WriteString(renderLine(line) + "\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderLine(line string) string {
	for _, prefix := range []string{"### ", "## ", "# "} {
		if rest, found := strings.CutPrefix(line, prefix); found {
			return headingStyle.Render(inline(rest))
		}
	}

	for _, prefix := range []string{"- ", "* "} {
		if rest, found := strings.CutPrefix(line, prefix); found {
			return listStyle.Render("• " + inline(rest))
		}
	}

	if m := orderedItemRe.FindStringSubmatch(line); len(m) == 3 {
		return listStyle.Render(m[1] + ". " + inline(m[2]))
	}

	return inline(line)
}

// inline handles code spans first so their contents escape the
// emphasis passes.
func inline(line string) string {
	line = inlineCodeRe.ReplaceAllStringFunc(line, func(match string) string {
		return codeStyle.Render(strings.Trim(match, "`"))
	})
	line = boldRe.ReplaceAllStringFunc(line, func(match string) string {
		return boldStyle.Render(strings.Trim(match, "*"))
	})
	line = italicRe.ReplaceAllStringFunc(line, func(match string) string {
		return italicStyle.Render(strings.Trim(match, "*"))
	})
	return line
}
