package gridpath

import "github.com/pdrpinto/gridpath/internal"

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot struct {
	Current   Cell
	Open      map[Cell]bool
	Closed    map[Cell]bool
	CameFrom  map[Cell]Cell
	Done      bool
	Found     bool
	Path      Path
	StepIndex int
}

// Stepper runs the same search as Search, one expansion per Step call.
// A Stepper is not safe for concurrent use.
type Stepper struct {
	search *search
}

// NewStepper validates the endpoints and prepares a search.
func NewStepper(grid *Grid, startCell, goalCell Cell) (*Stepper, error) {
	if err := checkEndpoints(grid, startCell, goalCell); err != nil {
		return nil, err
	}
	return &Stepper{search: newSearch(grid, startCell, goalCell)}, nil
}

// Done reports whether the search has finished.
func (s *Stepper) Done() bool { return s.search.done }

// Result returns the outcome so far. It is final once Done reports true.
func (s *Stepper) Result() Result { return s.search.result() }

// Step advances the search by one node expansion and returns a snapshot.
// Calling Step after the search is done returns the final snapshot again.
func (s *Stepper) Step() (StepSnapshot, error) {
	s.search.step()
	return s.snapshot(), nil
}

func (s *Stepper) snapshot() StepSnapshot {
	st := s.search
	open := make(map[Cell]bool, len(st.openSetMap))
	for c := range st.openSetMap {
		open[c] = true
	}
	snapshot := StepSnapshot{
		Current:   st.current,
		Open:      open,
		Closed:    internal.CopyMap(st.closedSet),
		CameFrom:  internal.CopyMap(st.cameFrom),
		Done:      st.done,
		Found:     st.found,
		StepIndex: st.expanded,
	}
	if st.found {
		snapshot.Path = append(Path{}, st.path...)
	}
	return snapshot
}
