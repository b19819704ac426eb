// Package gridpath provides A* pathfinding for an agent moving on a uniform
// 2D grid with blocked cells.
//
// It exposes three entry points:
//
//   - FindPath / Search: run the algorithm to completion and get a Path or Result.
//   - Stepper: iterate the search one expansion at a time to drive UIs or debugging tools.
//   - SolveAll: run many independent searches over one grid on a worker pool.
//
// Movement is 4-directional with unit cost and the heuristic is the Manhattan
// distance, so the first time the goal is popped from the frontier its path is
// optimal. Ties on fScore are broken by insertion order and neighbours are
// visited East, South, West, North, which makes results reproducible.
//
// A Grid is immutable once built. All search state is owned by a single call,
// so concurrent searches over the same Grid are safe.
package gridpath
