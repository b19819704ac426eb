package gridpath

import (
	"context"
	"sync"
)

// Query is one start/goal pair for SolveAll.
type Query struct {
	Start Cell `json:"start"`
	Goal  Cell `json:"goal"`
}

// Answer is the worker's result for the query at the same index.
type Answer struct {
	Query  Query
	Result Result
	Err    error
}

// solveTask represents a request from the dispatcher to the workers.
type solveTask struct {
	Index int
	Query Query
}

// SolveAll runs independent searches over one grid on a pool of
// WithWorkers goroutines. Answers are index-aligned with queries; per-query
// failures such as ErrOutOfBounds are reported in Answer.Err. The returned
// error is non-nil only if ctx ended before every query was dispatched.
func SolveAll(
	contextObject context.Context,
	grid *Grid,
	queries []Query,
	options ...Option,
) ([]Answer, error) {
	searchOptions := newOptions(options)
	numberOfWorkers := searchOptions.NumberOfWorkers
	if numberOfWorkers > len(queries) {
		numberOfWorkers = len(queries)
	}
	if numberOfWorkers < 1 {
		numberOfWorkers = 1
	}

	answers := make([]Answer, len(queries))
	taskChannel := make(chan solveTask)

	// --- Start worker pool ---
	var wg sync.WaitGroup
	for i := 0; i < numberOfWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskChannel {
				result, err := Search(contextObject, grid, task.Query.Start, task.Query.Goal, options...)
				answers[task.Index] = Answer{Query: task.Query, Result: result, Err: err}
			}
		}()
	}

	// --- Dispatch ---
	var dispatchErr error
dispatch:
	for i, query := range queries {
		if dispatchErr = contextObject.Err(); dispatchErr == nil {
			select {
			case <-contextObject.Done():
				dispatchErr = contextObject.Err()
			case taskChannel <- solveTask{Index: i, Query: query}:
				continue
			}
		}
		for j := i; j < len(queries); j++ {
			answers[j] = Answer{Query: queries[j], Result: Result{Path: Path{}}, Err: dispatchErr}
		}
		break dispatch
	}
	close(taskChannel)
	wg.Wait()
	return answers, dispatchErr
}
