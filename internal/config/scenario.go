// Package config loads scenario files describing a grid, its obstacles and
// the endpoints of a search.
//
// Scenario files are YAML or JSON with comments. Both are parsed into a
// generic map first and then decoded with mapstructure, so the HTTP API can
// reuse Decode for request bodies.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pdrpinto/gridpath"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario is returned for scenarios that cannot describe a grid.
var ErrInvalidScenario = errors.New("invalid scenario")

// MaxRandomSteps bounds clusters × steps of a random obstacle spec.
const MaxRandomSteps = 1 << 22

// DefaultTick is the agent's step interval when a scenario does not set one.
const DefaultTick = 500 * time.Millisecond

// Scenario is the decoded form of a scenario file.
type Scenario struct {
	Width     int            `mapstructure:"width" json:"width"`
	Height    int            `mapstructure:"height" json:"height"`
	Map       string         `mapstructure:"map" json:"map,omitempty"`
	Start     [2]int         `mapstructure:"start" json:"start"`
	Goal      [2]int         `mapstructure:"goal" json:"goal"`
	Tick      time.Duration  `mapstructure:"tick" json:"tick"`
	Obstacles []ObstacleSpec `mapstructure:"obstacles" json:"obstacles,omitempty"`
	Random    *RandomSpec    `mapstructure:"random" json:"random,omitempty"`
}

// ObstacleSpec describes one obstacle. Exactly one of Cell, Row, Column or
// Rect must be set; From and To bound Row and Column.
type ObstacleSpec struct {
	Cell   *[2]int `mapstructure:"cell" json:"cell,omitempty"`
	Row    *int    `mapstructure:"row" json:"row,omitempty"`
	Column *int    `mapstructure:"column" json:"column,omitempty"`
	From   int     `mapstructure:"from" json:"from,omitempty"`
	To     int     `mapstructure:"to" json:"to,omitempty"`
	Rect   *[4]int `mapstructure:"rect" json:"rect,omitempty"`
}

// DefaultScenario is the 10×10 demo layout: one blocked cell at (3,2) and
// row 5 blocked from x=0 to x=5, walking from (0,0) to (9,9).
func DefaultScenario() Scenario {
	row := 5
	return Scenario{
		Width:  10,
		Height: 10,
		Start:  [2]int{0, 0},
		Goal:   [2]int{9, 9},
		Tick:   DefaultTick,
		Obstacles: []ObstacleSpec{
			{Cell: &[2]int{3, 2}},
			{Row: &row, From: 0, To: 5},
		},
	}
}

// Load reads a scenario file. The format follows the extension: .json and
// .jsonc are JSON with comments, anything else is YAML.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Parse decodes scenario bytes in the given format ("yaml", "yml", "json"
// or "jsonc").
func Parse(data []byte, format string) (Scenario, error) {
	switch strings.ToLower(format) {
	case "json", "jsonc":
		data = jsonc.ToJSON(data)
	case "yaml", "yml", "":
	default:
		return Scenario{}, fmt.Errorf("%w: unsupported format %q", ErrInvalidScenario, format)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Scenario{}, fmt.Errorf("%w: failed to parse: %v", ErrInvalidScenario, err)
	}
	return Decode(raw)
}

// Decode converts a generic map into a Scenario. Unknown keys are rejected.
func Decode(raw map[string]any) (Scenario, error) {
	scenario := Scenario{Tick: DefaultTick}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &scenario,
	})
	if err != nil {
		return Scenario{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Scenario{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if scenario.Tick <= 0 {
		return Scenario{}, fmt.Errorf("%w: tick must be positive", ErrInvalidScenario)
	}
	if scenario.Random != nil {
		if err := scenario.Random.validate(); err != nil {
			return Scenario{}, err
		}
	}
	return scenario, nil
}

// CheckCells rejects scenarios whose declared grid has more than maxCells
// cells. Scenarios given as a map are bounded by their text and pass.
func (s Scenario) CheckCells(maxCells int) error {
	if s.Map != "" || s.Width <= 0 || s.Height <= 0 {
		return nil
	}
	if s.Width > maxCells/s.Height {
		return fmt.Errorf("%w: %dx%d grid exceeds %d cells", ErrInvalidScenario, s.Width, s.Height, maxCells)
	}
	return nil
}

// StartCell returns the start as a grid cell.
func (s Scenario) StartCell() gridpath.Cell { return gridpath.Cell{X: s.Start[0], Y: s.Start[1]} }

// GoalCell returns the goal as a grid cell.
func (s Scenario) GoalCell() gridpath.Cell { return gridpath.Cell{X: s.Goal[0], Y: s.Goal[1]} }

// Build constructs the grid. A non-empty Map takes precedence over Width,
// Height and Obstacles, which must then be unset or agree with the map.
func (s Scenario) Build() (*gridpath.Grid, error) {
	if s.Map != "" {
		grid, err := gridpath.ParseGrid(s.Map)
		if err != nil {
			return nil, err
		}
		if (s.Width != 0 && s.Width != grid.Width()) || (s.Height != 0 && s.Height != grid.Height()) {
			return nil, fmt.Errorf("%w: map is %dx%d but width/height say %dx%d",
				ErrInvalidScenario, grid.Width(), grid.Height(), s.Width, s.Height)
		}
		if len(s.Obstacles) > 0 || s.Random != nil {
			return nil, fmt.Errorf("%w: map cannot be combined with obstacles", ErrInvalidScenario)
		}
		return grid, nil
	}

	obstacles := make([]gridpath.Obstacle, 0, len(s.Obstacles))
	for i, spec := range s.Obstacles {
		obstacle, err := spec.obstacle()
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		obstacles = append(obstacles, obstacle)
	}
	if s.Random != nil {
		if err := s.Random.validate(); err != nil {
			return nil, err
		}
		obstacles = append(obstacles, s.Random.Obstacles(s.Width, s.Height, s.StartCell(), s.GoalCell())...)
	}
	return gridpath.NewGrid(s.Width, s.Height, obstacles...)
}

func (o ObstacleSpec) obstacle() (gridpath.Obstacle, error) {
	set := 0
	for _, present := range []bool{o.Cell != nil, o.Row != nil, o.Column != nil, o.Rect != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return gridpath.Obstacle{}, fmt.Errorf("%w: set exactly one of cell, row, column, rect", ErrInvalidScenario)
	}

	switch {
	case o.Cell != nil:
		return gridpath.At(gridpath.Cell{X: o.Cell[0], Y: o.Cell[1]}), nil
	case o.Row != nil:
		return gridpath.Row(*o.Row, o.From, o.To), nil
	case o.Column != nil:
		return gridpath.Column(*o.Column, o.From, o.To), nil
	default:
		return gridpath.Rect(gridpath.Cell{X: o.Rect[0], Y: o.Rect[1]}, gridpath.Cell{X: o.Rect[2], Y: o.Rect[3]}), nil
	}
}
