// Package cache stores search results keyed by grid layout and endpoints.
// Grids are immutable, so a result stays valid for as long as a grid with
// the same fingerprint exists.
package cache

import (
	"context"
	"fmt"

	"github.com/pdrpinto/gridpath"
)

// Key identifies one search.
type Key struct {
	Fingerprint uint64
	Start       gridpath.Cell
	Goal        gridpath.Cell
}

// KeyFor builds the key for a search on grid.
func KeyFor(grid *gridpath.Grid, start, goal gridpath.Cell) Key {
	return Key{Fingerprint: grid.Fingerprint(), Start: start, Goal: goal}
}

func (k Key) String() string {
	return fmt.Sprintf("%016x:%d,%d:%d,%d", k.Fingerprint, k.Start.X, k.Start.Y, k.Goal.X, k.Goal.Y)
}

// Cache is a result store.
type Cache interface {
	Get(ctx context.Context, key Key) (gridpath.Result, bool, error)
	Put(ctx context.Context, key Key, result gridpath.Result) error
}

// Solve returns a cached result when one exists and otherwise runs Search
// and stores its result. Failed searches are not cached. Cache errors are
// logged through the WithLogger option and the search runs uncached. A hit
// that expanded more nodes than WithMaxExpansions allows is ignored. The
// boolean reports a cache hit.
func Solve(
	ctx context.Context,
	c Cache,
	grid *gridpath.Grid,
	start, goal gridpath.Cell,
	options ...gridpath.Option,
) (gridpath.Result, bool, error) {
	if c == nil || !grid.InBounds(start) || !grid.InBounds(goal) {
		result, err := gridpath.Search(ctx, grid, start, goal, options...)
		return result, false, err
	}

	resolved := gridpath.ResolveOptions(options...)
	key := KeyFor(grid, start, goal)
	cached, ok, err := c.Get(ctx, key)
	switch {
	case err != nil:
		resolved.Logger.Warn("cache read failed", "key", key.String(), "error", err)
	case ok && withinLimit(cached, resolved.MaxExpansions):
		return cached, true, nil
	}

	result, err := gridpath.Search(ctx, grid, start, goal, options...)
	if err != nil {
		return result, false, err
	}
	if err := c.Put(ctx, key, result); err != nil {
		resolved.Logger.Warn("cache write failed", "key", key.String(), "error", err)
	}
	return result, false, nil
}

// withinLimit reports whether a live search with the given expansion limit
// would have produced result. Unreachable results need one check past their
// last expansion.
func withinLimit(result gridpath.Result, limit int) bool {
	if limit <= 0 {
		return true
	}
	if result.Found {
		return result.Expanded <= limit
	}
	return result.Expanded < limit
}
