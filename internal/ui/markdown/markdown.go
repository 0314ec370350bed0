// Package markdown renders face summaries as styled terminal markdown.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/fontedit/fontedit/internal/font"
)

// noMarginStyle inherits auto (dark/light detection) with document margins removed.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with the editor's configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer with the given width.
func New(width int) (*Renderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// Summary describes a document for FaceSummary.
type Summary struct {
	Path     string
	Info     font.Info
	Margins  font.Margins
	Modified []string // labels of modified glyphs
}

// FaceSummary builds the markdown shown by the info pane and the info command.
func FaceSummary(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", s.Info.FontName)
	if s.Path != "" {
		fmt.Fprintf(&b, "`%s`\n\n", s.Path)
	}
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Glyphs | %d |\n", s.Info.NumberOfGlyphs)
	fmt.Fprintf(&b, "| Cell size | %s |\n", s.Info.Size)
	fmt.Fprintf(&b, "| Without margins | %s |\n", s.Info.SizeWithoutMargins)
	fmt.Fprintf(&b, "| Margins | top %d, bottom %d |\n", s.Margins.Top, s.Margins.Bottom)

	if len(s.Modified) == 0 {
		b.WriteString("\nNo modified glyphs.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "\n### Modified glyphs (%d)\n\n", len(s.Modified))
	for _, label := range s.Modified {
		fmt.Fprintf(&b, "- %s\n", label)
	}
	return b.String()
}
