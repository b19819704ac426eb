// Package cli implements the cobra-based commands of the gridpath binary.
//
// Each subcommand lives in its own file. This file defines the root command
// and the flags and helpers the subcommands share.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pdrpinto/gridpath"
	"github.com/pdrpinto/gridpath/internal/config"
	"github.com/pdrpinto/gridpath/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	jsonOutput bool
	start      string
	goal       string
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:   "gridpath",
		Short: "Shortest paths for an agent on a blocked 2D grid",
		Long: `gridpath runs A* with a Manhattan heuristic over a grid scenario
(YAML or JSON with comments) and can walk an agent along the result,
solve batches of queries, or serve searches over HTTP.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Scenario file (defaults to the built-in 10x10 demo)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Write JSON instead of text")
	flags.StringVar(&opts.start, "start", "", "Override the scenario start as x,y")
	flags.StringVar(&opts.goal, "goal", "", "Override the scenario goal as x,y")

	rootCmd.AddCommand(
		newFindCommand(opts),
		newWalkCommand(opts),
		newBatchCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return rootCmd
}

func (o *globalOptions) logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level, o.logFormat), nil
}

// scenario loads the configured scenario and applies --start/--goal.
func (o *globalOptions) scenario() (config.Scenario, *gridpath.Grid, error) {
	scenario := config.DefaultScenario()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return config.Scenario{}, nil, err
		}
		scenario = loaded
	}
	if o.start != "" {
		c, err := parseCell(o.start)
		if err != nil {
			return config.Scenario{}, nil, fmt.Errorf("--start: %w", err)
		}
		scenario.Start = [2]int{c.X, c.Y}
	}
	if o.goal != "" {
		c, err := parseCell(o.goal)
		if err != nil {
			return config.Scenario{}, nil, fmt.Errorf("--goal: %w", err)
		}
		scenario.Goal = [2]int{c.X, c.Y}
	}

	grid, err := scenario.Build()
	if err != nil {
		return config.Scenario{}, nil, err
	}
	return scenario, grid, nil
}

// parseCell reads "x,y".
func parseCell(s string) (gridpath.Cell, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return gridpath.Cell{}, fmt.Errorf("invalid cell %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return gridpath.Cell{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return gridpath.Cell{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	return gridpath.Cell{X: x, Y: y}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cellPairs(path gridpath.Path) [][2]int {
	pairs := make([][2]int, 0, len(path))
	for _, c := range path {
		pairs = append(pairs, [2]int{c.X, c.Y})
	}
	return pairs
}
