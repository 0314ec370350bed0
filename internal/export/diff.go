package export

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineDiff is a line-level change between two renderings.
type LineDiff struct {
	Added   int
	Removed int
	// Text holds every line prefixed with "+ ", "- " or "  ".
	Text string
}

// Changed reports whether any line differs.
func (d LineDiff) Changed() bool {
	return d.Added > 0 || d.Removed > 0
}

// DiffSource compares two renderings line by line.
func DiffSource(before, after string) LineDiff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var out LineDiff
	var text strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				out.Added++
			case diffmatchpatch.DiffDelete:
				out.Removed++
			}
			text.WriteString(prefix)
			text.WriteString(line)
			text.WriteByte('\n')
		}
	}
	out.Text = text.String()
	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
