package gridpath

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Result contains the outcome of a search
type Result struct {
	Path     Path `json:"path"`
	Cost     int  `json:"cost"`
	Expanded int  `json:"expanded"`
	Found    bool `json:"found"`
}

// Outcome classifies how a search ended.
type Outcome string

const (
	OutcomeFound       Outcome = "found"
	OutcomeUnreachable Outcome = "unreachable"
	OutcomeCancelled   Outcome = "cancelled"
	OutcomeLimit       Outcome = "limit"
)

// Stats is reported to an Observer after every search.
type Stats struct {
	Outcome    Outcome
	Expanded   int
	PathLength int
	Duration   time.Duration
}

// Observer receives per-search statistics.
type Observer interface {
	ObserveSearch(stats Stats)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Stats)

// ObserveSearch calls f(stats).
func (f ObserverFunc) ObserveSearch(stats Stats) { f(stats) }

// Options defines parameters for the search.
type Options struct {
	NumberOfWorkers int
	MaxExpansions   int
	Logger          *slog.Logger
	Observer        Observer
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithWorkers specifies how many goroutines SolveAll runs searches on.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithMaxExpansions aborts a search with ErrExpansionLimit after n
// expansions. Zero means unlimited.
func WithMaxExpansions(n int) Option {
	return func(options *Options) { options.MaxExpansions = n }
}

// WithLogger sets the logger used for per-search debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithObserver registers an Observer notified after every search.
func WithObserver(observer Observer) Option {
	return func(options *Options) { options.Observer = observer }
}

// ResolveOptions applies options over the defaults, as Search does.
func ResolveOptions(options ...Option) Options { return newOptions(options) }

func newOptions(options []Option) Options {
	searchOptions := Options{
		NumberOfWorkers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(&searchOptions)
	}
	if searchOptions.Logger == nil {
		searchOptions.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return searchOptions
}

// FindPath returns a shortest 4-directional path from start to goal. The start
// cell is not part of the returned path. An empty path with a nil error means
// the goal is unreachable (or equal to start).
func FindPath(grid *Grid, start, goal Cell) (Path, error) {
	result, err := Search(context.Background(), grid, start, goal)
	if err != nil {
		return nil, err
	}
	return result.Path, nil
}

// Search executes A* from start to goal. The context is checked once per
// expansion. Unreachable goals are reported through Result.Found, not as an
// error.
func Search(
	ctx context.Context,
	grid *Grid,
	start Cell,
	goal Cell,
	options ...Option,
) (Result, error) {
	searchOptions := newOptions(options)
	if err := checkEndpoints(grid, start, goal); err != nil {
		return Result{Path: Path{}}, err
	}

	began := time.Now()
	s := newSearch(grid, start, goal)
	var err error
	for !s.done {
		if err = ctx.Err(); err != nil {
			break
		}
		if searchOptions.MaxExpansions > 0 && s.expanded >= searchOptions.MaxExpansions {
			err = fmt.Errorf("%w: %d expansions", ErrExpansionLimit, s.expanded)
			break
		}
		s.step()
	}

	var result Result
	outcome := OutcomeUnreachable
	switch {
	case err != nil && ctx.Err() != nil:
		outcome = OutcomeCancelled
		result = Result{Path: Path{}, Expanded: s.expanded}
	case err != nil:
		outcome = OutcomeLimit
		result = Result{Path: Path{}, Expanded: s.expanded}
	default:
		result = s.result()
		if result.Found {
			outcome = OutcomeFound
		}
	}

	stats := Stats{
		Outcome:    outcome,
		Expanded:   result.Expanded,
		PathLength: len(result.Path),
		Duration:   time.Since(began),
	}
	searchOptions.Logger.Debug("search finished",
		"start", start,
		"goal", goal,
		"outcome", outcome,
		"expanded", stats.Expanded,
		"length", stats.PathLength,
		"duration", stats.Duration,
	)
	if searchOptions.Observer != nil {
		searchOptions.Observer.ObserveSearch(stats)
	}
	return result, err
}

func checkEndpoints(grid *Grid, start, goal Cell) error {
	if !grid.InBounds(start) {
		return fmt.Errorf("start: %w", grid.outOfBounds(start))
	}
	if !grid.InBounds(goal) {
		return fmt.Errorf("goal: %w", grid.outOfBounds(goal))
	}
	return nil
}
