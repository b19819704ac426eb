package gridpath

import (
	"container/heap"
	"math"

	"github.com/pdrpinto/gridpath/internal"
)

// search owns the working state of one A* run. It is never shared between
// runs; Search and Stepper both drive it one expansion at a time.
type search struct {
	grid  *Grid
	start Cell
	goal  Cell

	openSet    PriorityQueue
	openSetMap map[Cell]*PriorityQueueItem
	closedSet  map[Cell]bool
	cameFrom   map[Cell]Cell
	gScore     map[Cell]int
	sequence   uint64

	current  Cell
	expanded int
	done     bool
	found    bool
	path     Path
}

func newSearch(grid *Grid, start, goal Cell) *search {
	s := &search{
		grid:       grid,
		start:      start,
		goal:       goal,
		openSet:    make(PriorityQueue, 0),
		openSetMap: make(map[Cell]*PriorityQueueItem),
		closedSet:  make(map[Cell]bool),
		cameFrom:   make(map[Cell]Cell),
		gScore:     map[Cell]int{start: 0},
		current:    start,
	}
	heap.Init(&s.openSet)

	// A blocked endpoint can never be expanded or entered.
	startBlocked, _ := grid.IsBlocked(start)
	goalBlocked, _ := grid.IsBlocked(goal)
	if startBlocked || goalBlocked {
		s.done = true
		return s
	}

	s.push(start, 0)
	return s
}

func (s *search) heuristic(c Cell) int { return Manhattan(c, s.goal) }

func (s *search) bestCost(c Cell) int {
	if g, ok := s.gScore[c]; ok {
		return g
	}
	return math.MaxInt
}

// push inserts c or re-prioritises its existing entry. Either way the entry
// takes a fresh sequence number, so among equal fScores it is served after
// everything already waiting.
func (s *search) push(c Cell, g int) {
	s.sequence++
	f := g + s.heuristic(c)
	if item, inOpen := s.openSetMap[c]; inOpen {
		item.GScore = g
		item.FScore = f
		item.Sequence = s.sequence
		heap.Fix(&s.openSet, item.IndexInQueue)
		return
	}
	item := &PriorityQueueItem{Cell: c, GScore: g, FScore: f, Sequence: s.sequence}
	heap.Push(&s.openSet, item)
	s.openSetMap[c] = item
}

// step performs one expansion. It is a no-op once the search is done.
func (s *search) step() {
	if s.done {
		return
	}
	if s.openSet.Len() == 0 {
		s.done = true
		return
	}

	currentItem := heap.Pop(&s.openSet).(*PriorityQueueItem)
	current := currentItem.Cell
	delete(s.openSetMap, current)
	s.current = current
	s.expanded++

	if current == s.goal {
		s.done = true
		s.found = true
		s.path = internal.ReconstructPath(s.cameFrom, current)
		return
	}

	s.closedSet[current] = true
	for _, neighbor := range s.grid.Neighbors(current) {
		tentativeG := s.gScore[current] + 1
		if s.closedSet[neighbor] && tentativeG >= s.bestCost(neighbor) {
			continue
		}
		_, inOpen := s.openSetMap[neighbor]
		if tentativeG < s.bestCost(neighbor) || !inOpen {
			s.cameFrom[neighbor] = current
			s.gScore[neighbor] = tentativeG
			delete(s.closedSet, neighbor)
			s.push(neighbor, tentativeG)
		}
	}
}

func (s *search) result() Result {
	result := Result{
		Path:     s.path,
		Expanded: s.expanded,
		Found:    s.found,
	}
	if result.Path == nil {
		result.Path = Path{}
	}
	if s.found {
		result.Cost = s.gScore[s.goal]
	}
	return result
}
