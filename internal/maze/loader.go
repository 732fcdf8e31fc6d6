package maze

import (
	"fmt"
	"strings"
)

// Format names a map text encoding.
type Format string

const (
	// FormatASCII is ASCII art where road segments are derived from the
	// shape of the drawing.
	FormatASCII Format = "ascii"
	// FormatNumeric is comma-separated tile codes, one row per line.
	FormatNumeric Format = "numeric"
)

// Loader builds a grid from map text. Loading never fails: unknown symbols
// become absent cells.
type Loader interface {
	Load(text string) *Grid
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(text string) *Grid

// Load calls f(text).
func (f LoaderFunc) Load(text string) *Grid {
	return f(text)
}

// ASCII loads ASCII-art maps with neighbourhood pattern derivation.
var ASCII Loader = LoaderFunc(func(text string) *Grid {
	return NewGrid(DeriveTokens(splitLines(text)))
})

// Numeric loads maps written as comma-separated tile codes.
var Numeric Loader = LoaderFunc(func(text string) *Grid {
	lines := splitLines(text)
	rows := make([][]string, len(lines))
	for y, line := range lines {
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		rows[y] = fields
	}
	return NewGrid(rows)
})

// LoaderFor returns the loader registered for a format name.
// An empty name selects ASCII.
func LoaderFor(f Format) (Loader, error) {
	switch Format(strings.ToLower(string(f))) {
	case "", FormatASCII:
		return ASCII, nil
	case FormatNumeric, "csv":
		return Numeric, nil
	default:
		return nil, fmt.Errorf("maze: unknown map format %q", f)
	}
}
