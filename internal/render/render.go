// Package render draws grids and paths for the terminal.
package render

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/pdrpinto/gridpath"
)

// Palette colours for each glyph.
const (
	colorStart   = "#60a5fa"
	colorGoal    = "#f472b6"
	colorPath    = "#facc15"
	colorBlocked = "#ef4444"
	colorFree    = "#166534"
	colorAgent   = "#3b82f6"
)

// Frame is one picture of the grid, optionally with the agent's position.
type Frame struct {
	Grid  *gridpath.Grid
	Path  gridpath.Path
	Start gridpath.Cell
	Goal  gridpath.Cell
	Agent *gridpath.Cell
}

// Write draws f to w using profile. termenv.Ascii produces the same text as
// Grid.Render (plus '@' for the agent) with no escape sequences.
func Write(w io.Writer, profile termenv.Profile, f Frame) error {
	var b strings.Builder
	for y, row := range strings.Split(f.Grid.Render(f.Path, f.Start, f.Goal), "\n") {
		for x, glyph := range []rune(row) {
			if f.Agent != nil && *f.Agent == (gridpath.Cell{X: x, Y: y}) {
				glyph = '@'
			}
			b.WriteString(profile.String(string(glyph)).Foreground(profile.Color(colorFor(glyph))).String())
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func colorFor(glyph rune) string {
	switch glyph {
	case 'S':
		return colorStart
	case 'G':
		return colorGoal
	case '*':
		return colorPath
	case '#':
		return colorBlocked
	case '@':
		return colorAgent
	default:
		return colorFree
	}
}
