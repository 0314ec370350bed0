package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fontedit/fontedit/internal/font"
)

func summary() Summary {
	return Summary{
		Path: "/tmp/pixel.fontedit",
		Info: font.Info{
			FontName:           "Pixel",
			Size:               font.Size{Width: 8, Height: 12},
			SizeWithoutMargins: font.Size{Width: 8, Height: 9},
			NumberOfGlyphs:     95,
		},
		Margins:  font.Margins{Top: 2, Bottom: 1},
		Modified: []string{"U+0041 LATIN CAPITAL LETTER A"},
	}
}

func TestFaceSummary(t *testing.T) {
	md := FaceSummary(summary())

	assert.Contains(t, md, "## Pixel")
	assert.Contains(t, md, "`/tmp/pixel.fontedit`")
	assert.Contains(t, md, "| Glyphs | 95 |")
	assert.Contains(t, md, "| Cell size | 8x12 |")
	assert.Contains(t, md, "| Without margins | 8x9 |")
	assert.Contains(t, md, "top 2, bottom 1")
	assert.Contains(t, md, "### Modified glyphs (1)")
	assert.Contains(t, md, "- U+0041 LATIN CAPITAL LETTER A")
}

func TestFaceSummary_Unmodified(t *testing.T) {
	s := summary()
	s.Path = ""
	s.Modified = nil

	md := FaceSummary(s)

	assert.Contains(t, md, "No modified glyphs.")
	assert.NotContains(t, md, "`")
}

func TestRenderer_Render(t *testing.T) {
	r, err := New(60)
	require.NoError(t, err)
	assert.Equal(t, 60, r.Width())

	out, err := r.Render(FaceSummary(summary()))

	require.NoError(t, err)
	assert.Contains(t, out, "Pixel")
	assert.Contains(t, out, "95")
}
