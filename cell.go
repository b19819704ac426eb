package gridpath

import "fmt"

// Cell is an integer grid coordinate. X grows east, Y grows south.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Add returns c translated by d.
func (c Cell) Add(d Cell) Cell { return Cell{X: c.X + d.X, Y: c.Y + d.Y} }

// Path is an ordered sequence of cells from the cell after the start up to and
// including the goal. An empty Path with Found == false means unreachable.
type Path []Cell

// Manhattan returns |a.X-b.X| + |a.Y-b.Y|.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Directions lists the unit steps in the order neighbours are visited:
// East, South, West, North.
var Directions = [4]Cell{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 0, Y: -1},
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
