package importer

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultRunes is the printable ASCII range.
const DefaultRunes = "32-126"

// ParseRunes parses a comma separated list of code points and inclusive
// ranges, e.g. "32-126,0xA0-0xFF,8364". Duplicates are dropped; order is
// preserved.
func ParseRunes(ranges string) ([]rune, error) {
	var out []rune
	seen := make(map[rune]bool)
	for _, part := range strings.Split(ranges, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := parseRune(lo)
		if err != nil {
			return nil, err
		}
		last := first
		if isRange {
			if last, err = parseRune(hi); err != nil {
				return nil, err
			}
		}
		if last < first {
			return nil, fmt.Errorf("rune range %q is reversed", part)
		}
		for r := first; r <= last; r++ {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("rune list %q is empty", ranges)
	}
	return out, nil
}

func parseRune(s string) (rune, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid code point %q: %w", s, err)
	}
	if v < 0 || v > 0x10FFFF {
		return 0, fmt.Errorf("code point %q out of range", s)
	}
	return rune(v), nil
}
