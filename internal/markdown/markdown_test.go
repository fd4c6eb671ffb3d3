package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_PlainTextPassesThrough(t *testing.T) {
	assert.Equal(t, "Bonjour !", Render("Bonjour !"))
}

func TestRender_StripsHeadingMarkers(t *testing.T) {
	out := Render("# Title\nbody")
	assert.Contains(t, out, "Title")
	assert.NotContains(t, out, "# ")
}

func TestRender_BulletsGetDots(t *testing.T) {
	out := Render("- one\n* two")
	assert.Contains(t, out, "• one")
	assert.Contains(t, out, "• two")
}

func TestRender_OrderedListKeepsNumbers(t *testing.T) {
	out := Render("1. first\n2. second")
	assert.Contains(t, out, "1. first")
	assert.Contains(t, out, "2. second")
}

func TestRender_FenceMarkersRemoved(t *testing.T) {
	out := Render("```go\nfmt.Println(\"hi\")\n```")
	assert.NotContains(t, out, "```")
	assert.Contains(t, out, `fmt.Println("hi")`)
}

func TestRender_InlineMarkersStripped(t *testing.T) {
	out := Render("use `go test` with **care** and *style*")
	assert.NotContains(t, out, "`")
	assert.NotContains(t, out, "*")
	assert.Contains(t, out, "go test")
	assert.Contains(t, out, "care")
	assert.Contains(t, out, "style")
}
