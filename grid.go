package gridpath

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Obstacle is an inclusive rectangle of blocked cells.
type Obstacle struct {
	Min Cell
	Max Cell
}

// At blocks a single cell.
func At(c Cell) Obstacle { return Obstacle{Min: c, Max: c} }

// Row blocks cells x0..x1 on row y.
func Row(y, x0, x1 int) Obstacle { return Rect(Cell{X: x0, Y: y}, Cell{X: x1, Y: y}) }

// Column blocks cells y0..y1 on column x.
func Column(x, y0, y1 int) Obstacle { return Rect(Cell{X: x, Y: y0}, Cell{X: x, Y: y1}) }

// Rect blocks every cell between two corners. The corners may be given in
// any order.
func Rect(a, b Cell) Obstacle {
	if a.X > b.X {
		a.X, b.X = b.X, a.X
	}
	if a.Y > b.Y {
		a.Y, b.Y = b.Y, a.Y
	}
	return Obstacle{Min: a, Max: b}
}

// Grid is a fixed width × height occupancy map. It has no mutators; callers
// that need a different layout build a new Grid.
type Grid struct {
	width   int
	height  int
	blocked []bool
}

// MaxCells is the largest width × height NewGrid accepts.
const MaxCells = 1 << 28

// NewGrid builds a grid with every listed obstacle blocked. Both dimensions
// must be positive and their product at most MaxCells.
func NewGrid(width, height int, obstacles ...Obstacle) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > MaxCells/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidDimensions, width, height, MaxCells)
	}
	grid := &Grid{
		width:   width,
		height:  height,
		blocked: make([]bool, width*height),
	}
	for _, obstacle := range obstacles {
		if !grid.InBounds(obstacle.Min) || !grid.InBounds(obstacle.Max) {
			return nil, fmt.Errorf("%w: %v..%v outside %dx%d grid",
				ErrInvalidObstacle, obstacle.Min, obstacle.Max, width, height)
		}
		for y := obstacle.Min.Y; y <= obstacle.Max.Y; y++ {
			for x := obstacle.Min.X; x <= obstacle.Max.X; x++ {
				grid.blocked[grid.offset(Cell{X: x, Y: y})] = true
			}
		}
	}
	return grid, nil
}

// ParseGrid builds a grid from an ASCII map where '.' is free and '#' or 'X'
// is blocked. Blank lines are ignored; all remaining rows must be the same
// width.
func ParseGrid(text string) (*Grid, error) {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty map", ErrInvalidDimensions)
	}
	width := len(rows[0])
	var obstacles []Obstacle
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrInvalidDimensions, y, len(row), width)
		}
		for x, ch := range row {
			switch ch {
			case '.':
			case '#', 'X':
				obstacles = append(obstacles, At(Cell{X: x, Y: y}))
			default:
				return nil, fmt.Errorf("%w: unexpected %q at %v", ErrInvalidObstacle, ch, Cell{X: x, Y: y})
			}
		}
	}
	return NewGrid(width, len(rows), obstacles...)
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether c lies in [0,width) × [0,height).
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// IsBlocked reports whether c is blocked.
func (g *Grid) IsBlocked(c Cell) (bool, error) {
	if !g.InBounds(c) {
		return false, g.outOfBounds(c)
	}
	return g.blocked[g.offset(c)], nil
}

// BlockedCount returns the number of blocked cells.
func (g *Grid) BlockedCount() int {
	count := 0
	for _, b := range g.blocked {
		if b {
			count++
		}
	}
	return count
}

// Blocked returns every blocked cell in row-major order.
func (g *Grid) Blocked() []Cell {
	cells := make([]Cell, 0, g.BlockedCount())
	for i, b := range g.blocked {
		if b {
			cells = append(cells, Cell{X: i % g.width, Y: i / g.width})
		}
	}
	return cells
}

// Neighbors returns the traversable orthogonal neighbours of c in
// East, South, West, North order.
func (g *Grid) Neighbors(c Cell) []Cell {
	neighbors := make([]Cell, 0, len(Directions))
	for _, d := range Directions {
		n := c.Add(d)
		if g.InBounds(n) && !g.blocked[g.offset(n)] {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// Fingerprint hashes the dimensions and blocked flags. Grids with the same
// layout share a fingerprint.
func (g *Grid) Fingerprint() uint64 {
	digest := xxhash.New()
	var header [16]byte
	binary.LittleEndian.PutUint64(header[0:8], uint64(g.width))
	binary.LittleEndian.PutUint64(header[8:16], uint64(g.height))
	_, _ = digest.Write(header[:])

	bits := make([]byte, (len(g.blocked)+7)/8)
	for i, b := range g.blocked {
		if b {
			bits[i/8] |= 1 << (i % 8)
		}
	}
	_, _ = digest.Write(bits)
	return digest.Sum64()
}

// Render draws the grid as ASCII: S start, G goal, * path, # blocked, . free.
func (g *Grid) Render(path Path, start, goal Cell) string {
	onPath := make(map[Cell]bool, len(path))
	for _, c := range path {
		onPath[c] = true
	}
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < g.width; x++ {
			b.WriteRune(g.glyph(Cell{X: x, Y: y}, onPath, start, goal))
		}
	}
	return b.String()
}

func (g *Grid) glyph(c Cell, onPath map[Cell]bool, start, goal Cell) rune {
	switch {
	case c == start:
		return 'S'
	case c == goal:
		return 'G'
	case onPath[c]:
		return '*'
	case g.blocked[g.offset(c)]:
		return '#'
	default:
		return '.'
	}
}

func (g *Grid) offset(c Cell) int { return c.Y*g.width + c.X }

func (g *Grid) outOfBounds(c Cell) error {
	return fmt.Errorf("%w: %v outside %dx%d grid", ErrOutOfBounds, c, g.width, g.height)
}
