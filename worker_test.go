package gridpath_test

import (
	"context"
	"testing"

	"github.com/pdrpinto/gridpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveAll(t *testing.T) {
	grid := demoGrid(t)
	queries := []gridpath.Query{
		{Start: gridpath.Cell{X: 0, Y: 0}, Goal: gridpath.Cell{X: 9, Y: 9}},
		{Start: gridpath.Cell{X: 0, Y: 0}, Goal: gridpath.Cell{X: 0, Y: 5}},
		{Start: gridpath.Cell{X: 0, Y: 0}, Goal: gridpath.Cell{X: 12, Y: 0}},
		{Start: gridpath.Cell{X: 9, Y: 0}, Goal: gridpath.Cell{X: 0, Y: 9}},
	}

	answers, err := gridpath.SolveAll(context.Background(), grid, queries, gridpath.WithWorkers(3))
	require.NoError(t, err)
	require.Len(t, answers, len(queries))

	for i, answer := range answers {
		assert.Equal(t, queries[i], answer.Query)
	}

	require.NoError(t, answers[0].Err)
	assert.True(t, answers[0].Result.Found)
	assert.Len(t, answers[0].Result.Path, 18)

	require.NoError(t, answers[1].Err)
	assert.False(t, answers[1].Result.Found)

	assert.ErrorIs(t, answers[2].Err, gridpath.ErrOutOfBounds)

	want, err := gridpath.FindPath(grid, queries[3].Start, queries[3].Goal)
	require.NoError(t, err)
	assert.Equal(t, want, answers[3].Result.Path, "parallel searches match sequential ones")
}

func TestSolveAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	queries := []gridpath.Query{
		{Start: gridpath.Cell{X: 0, Y: 0}, Goal: gridpath.Cell{X: 9, Y: 9}},
		{Start: gridpath.Cell{X: 0, Y: 0}, Goal: gridpath.Cell{X: 9, Y: 0}},
	}
	answers, err := gridpath.SolveAll(ctx, demoGrid(t), queries, gridpath.WithWorkers(1))
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, answers, 2)
	for _, answer := range answers {
		assert.ErrorIs(t, answer.Err, context.Canceled)
		assert.False(t, answer.Result.Found)
	}
}

func TestSolveAll_Empty(t *testing.T) {
	answers, err := gridpath.SolveAll(context.Background(), demoGrid(t), nil)
	require.NoError(t, err)
	assert.Empty(t, answers)
}
