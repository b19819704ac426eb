// Package agent advances an agent along a path produced by gridpath, one
// cell per tick of an external clock.
package agent

import (
	"context"
	"time"

	"github.com/pdrpinto/gridpath"
)

// State is the walker's lifecycle stage.
type State int

const (
	Idle State = iota
	Advancing
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Advancing:
		return "advancing"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Walker holds a path and the index of the next cell to move to.
// It is not safe for concurrent use.
type Walker struct {
	path     gridpath.Path
	position gridpath.Cell
	index    int
	state    State
}

// New returns an idle walker standing on start.
func New(start gridpath.Cell, path gridpath.Path) *Walker {
	return &Walker{path: path, position: start}
}

// Tick moves to the next cell on the path, if any, and reports whether the
// position changed. The walker becomes Finished after its last move, or on
// the first tick when the path is empty.
func (w *Walker) Tick() (gridpath.Cell, bool) {
	if w.state == Finished {
		return w.position, false
	}
	if w.index >= len(w.path) {
		w.state = Finished
		return w.position, false
	}
	w.position = w.path[w.index]
	w.index++
	w.state = Advancing
	if w.index == len(w.path) {
		w.state = Finished
	}
	return w.position, true
}

// Position returns the current cell.
func (w *Walker) Position() gridpath.Cell { return w.position }

// Index returns how many path cells have been consumed.
func (w *Walker) Index() int { return w.index }

// Remaining returns how many moves are left.
func (w *Walker) Remaining() int { return len(w.path) - w.index }

// State returns the lifecycle stage.
func (w *Walker) State() State { return w.state }

// Run ticks w every interval until it finishes or ctx ends. onMove, if set,
// is called after each move.
func Run(ctx context.Context, w *Walker, interval time.Duration, onMove func(gridpath.Cell)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for w.State() != Finished {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if cell, moved := w.Tick(); moved && onMove != nil {
				onMove(cell)
			}
		}
	}
	return nil
}
