package gridpath_test

import (
	"context"
	"testing"

	"github.com/pdrpinto/gridpath"
	"github.com/pdrpinto/gridpath/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStepper(t *testing.T, stepper *gridpath.Stepper) gridpath.StepSnapshot {
	t.Helper()
	var snapshot gridpath.StepSnapshot
	for i := 0; !stepper.Done(); i++ {
		require.Less(t, i, 10000, "stepper did not terminate")
		var err error
		snapshot, err = stepper.Step()
		require.NoError(t, err)
	}
	return snapshot
}

func TestStepper_MatchesSearch(t *testing.T) {
	grid := demoGrid(t)
	start := gridpath.Cell{X: 0, Y: 0}
	goal := gridpath.Cell{X: 9, Y: 9}

	stepper, err := gridpath.NewStepper(grid, start, goal)
	require.NoError(t, err)

	first, err := stepper.Step()
	require.NoError(t, err)
	assert.Equal(t, start, first.Current)
	assert.Equal(t, 1, first.StepIndex)
	assert.True(t, first.Closed[start])
	assert.Equal(t, map[gridpath.Cell]bool{{X: 1, Y: 0}: true, {X: 0, Y: 1}: true}, first.Open)
	assert.False(t, first.Done)

	final := runStepper(t, stepper)
	assert.True(t, final.Done)
	assert.True(t, final.Found)
	assert.Equal(t, goal, final.Current)

	result, err := gridpath.Search(context.Background(), grid, start, goal)
	require.NoError(t, err)
	assert.Equal(t, result.Path, final.Path)
	assert.Equal(t, result.Expanded, final.StepIndex)
	assert.Equal(t, result, stepper.Result())

	again, err := stepper.Step()
	require.NoError(t, err)
	assert.Equal(t, final.StepIndex, again.StepIndex, "stepping a finished search is a no-op")
	assert.Equal(t, final.Path, again.Path)
}

func TestStepper_Unreachable(t *testing.T) {
	grid, err := gridpath.NewGrid(3, 3, gridpath.Column(1, 0, 2))
	require.NoError(t, err)
	stepper, err := gridpath.NewStepper(grid, gridpath.Cell{X: 0, Y: 1}, gridpath.Cell{X: 2, Y: 1})
	require.NoError(t, err)

	final := runStepper(t, stepper)
	assert.True(t, final.Done)
	assert.False(t, final.Found)
	assert.Empty(t, final.Path)
	assert.Empty(t, final.Open)
}

func TestStepper_OutOfBounds(t *testing.T) {
	grid, err := gridpath.NewGrid(3, 3)
	require.NoError(t, err)
	_, err = gridpath.NewStepper(grid, gridpath.Cell{X: 0, Y: 0}, gridpath.Cell{X: 5, Y: 5})
	assert.ErrorIs(t, err, gridpath.ErrOutOfBounds)
}

func TestStepper_PredecessorChainIsBounded(t *testing.T) {
	grid, err := gridpath.NewGrid(8, 6)
	require.NoError(t, err)

	pairs := []gridpath.Query{
		{Start: gridpath.Cell{X: 0, Y: 0}, Goal: gridpath.Cell{X: 7, Y: 5}},
		{Start: gridpath.Cell{X: 7, Y: 5}, Goal: gridpath.Cell{X: 0, Y: 0}},
		{Start: gridpath.Cell{X: 3, Y: 2}, Goal: gridpath.Cell{X: 0, Y: 5}},
	}
	for _, pair := range pairs {
		stepper, err := gridpath.NewStepper(grid, pair.Start, pair.Goal)
		require.NoError(t, err)
		final := runStepper(t, stepper)
		require.True(t, final.Found)

		hops, terminated := internal.ChainLength(final.CameFrom, pair.Goal, grid.Width()+grid.Height())
		assert.True(t, terminated, "chain from %v must reach the start", pair.Goal)
		assert.LessOrEqual(t, hops, grid.Width()+grid.Height())
		assert.Equal(t, len(final.Path), hops)

		for cell := range final.CameFrom {
			_, terminated := internal.ChainLength(final.CameFrom, cell, grid.Width()+grid.Height())
			assert.True(t, terminated, "chain from %v", cell)
		}
	}
}
