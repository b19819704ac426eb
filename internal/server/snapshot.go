package server

import (
	"cmp"
	"slices"

	"github.com/pdrpinto/gridpath"
)

type snapshot struct {
	Step    int      `json:"step"`
	W       int      `json:"w"`
	H       int      `json:"h"`
	Walls   [][2]int `json:"walls"`
	Open    [][2]int `json:"open,omitempty"`
	Closed  [][2]int `json:"closed,omitempty"`
	Current [2]int   `json:"current"`
	Start   [2]int   `json:"start"`
	Goal    [2]int   `json:"goal"`
	Done    bool     `json:"done"`
	Found   bool     `json:"found"`
	Path    [][2]int `json:"path,omitempty"`
}

func newSnapshot(sess *session, st gridpath.StepSnapshot) snapshot {
	return snapshot{
		Step:    st.StepIndex,
		W:       sess.grid.Width(),
		H:       sess.grid.Height(),
		Walls:   cellList(sess.grid.Blocked()),
		Open:    setToList(st.Open),
		Closed:  setToList(st.Closed),
		Current: pair(st.Current),
		Start:   pair(sess.start),
		Goal:    pair(sess.goal),
		Done:    st.Done,
		Found:   st.Found,
		Path:    cellList(st.Path),
	}
}

func pair(c gridpath.Cell) [2]int { return [2]int{c.X, c.Y} }

func cellList(cells []gridpath.Cell) [][2]int {
	res := make([][2]int, 0, len(cells))
	for _, c := range cells {
		res = append(res, pair(c))
	}
	return res
}

// setToList flattens a membership map in row-major order.
func setToList(m map[gridpath.Cell]bool) [][2]int {
	res := make([][2]int, 0, len(m))
	for c, ok := range m {
		if ok {
			res = append(res, pair(c))
		}
	}
	slices.SortFunc(res, func(a, b [2]int) int {
		if c := cmp.Compare(a[1], b[1]); c != 0 {
			return c
		}
		return cmp.Compare(a[0], b[0])
	})
	return res
}
