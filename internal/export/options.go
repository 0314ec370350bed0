// Package export renders faces as source code byte arrays.
package export

import (
	"fmt"
	"strings"
)

// Format is an output language.
type Format string

const (
	FormatC       Format = "c"
	FormatArduino Format = "arduino"
	FormatPython  Format = "python"
)

// FormatInfo pairs a Format with its display name.
type FormatInfo struct {
	ID        Format
	Name      string
	Extension string
}

var formats = []FormatInfo{
	{ID: FormatC, Name: "C/C++", Extension: ".h"},
	{ID: FormatArduino, Name: "Arduino", Extension: ".h"},
	{ID: FormatPython, Name: "Python", Extension: ".py"},
}

// Formats lists the supported output formats.
func Formats() []FormatInfo {
	out := make([]FormatInfo, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat resolves a format identifier, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, info := range formats {
		if info.ID == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (want c, arduino or python)", s)
}

// Next returns the format after f in Formats order, wrapping around.
func (f Format) Next() Format {
	for i, info := range formats {
		if info.ID == f {
			return formats[(i+1)%len(formats)].ID
		}
	}
	return FormatC
}

// Info returns the FormatInfo of f, falling back to C for unknown formats.
func (f Format) Info() FormatInfo {
	for _, info := range formats {
		if info.ID == f {
			return info
		}
	}
	return formats[0]
}

// Options controls how glyph bitmaps are encoded.
type Options struct {
	Format Format
	// InvertBits emits 1 for clear pixels and 0 for set ones.
	InvertBits bool
	// MSBFirst puts the leftmost pixel of each byte in bit 7.
	MSBFirst bool
	// IncludeLineSpacing keeps the face's blank top and bottom margins.
	IncludeLineSpacing bool
}

// DefaultOptions returns C output, MSB first, without margins.
func DefaultOptions() Options {
	return Options{Format: FormatC, MSBFirst: true}
}

// Validate checks the format identifier.
func (o Options) Validate() error {
	_, err := ParseFormat(string(o.Format))
	return err
}

func (o Options) String() string {
	return fmt.Sprintf("%s invert=%t msb=%t spacing=%t", o.Format, o.InvertBits, o.MSBFirst, o.IncludeLineSpacing)
}
