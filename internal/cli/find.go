package cli

import (
	"fmt"

	"github.com/muesli/termenv"
	"github.com/pdrpinto/gridpath"
	"github.com/pdrpinto/gridpath/internal/render"
	"github.com/spf13/cobra"
)

type findOutput struct {
	Start    [2]int   `json:"start"`
	Goal     [2]int   `json:"goal"`
	Found    bool     `json:"found"`
	Cost     int      `json:"cost"`
	Expanded int      `json:"expanded"`
	Path     [][2]int `json:"path"`
}

func newFindCommand(opts *globalOptions) *cobra.Command {
	var maxExpansions int
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find a shortest path and draw it",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			scenario, grid, err := opts.scenario()
			if err != nil {
				return err
			}

			start, goal := scenario.StartCell(), scenario.GoalCell()
			result, err := gridpath.Search(cmd.Context(), grid, start, goal,
				gridpath.WithLogger(logger),
				gridpath.WithMaxExpansions(maxExpansions),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, findOutput{
					Start:    scenario.Start,
					Goal:     scenario.Goal,
					Found:    result.Found,
					Cost:     result.Cost,
					Expanded: result.Expanded,
					Path:     cellPairs(result.Path),
				})
			}

			frame := render.Frame{Grid: grid, Path: result.Path, Start: start, Goal: goal}
			if err := render.Write(out, termenv.EnvColorProfile(), frame); err != nil {
				return err
			}
			if !result.Found {
				_, err = fmt.Fprintf(out, "no path from %v to %v (%d expanded)\n", start, goal, result.Expanded)
				return err
			}
			_, err = fmt.Fprintf(out, "path %v -> %v: %d steps, %d expanded\n", start, goal, result.Cost, result.Expanded)
			return err
		},
	}
	cmd.Flags().IntVar(&maxExpansions, "max-expansions", 0, "Abort after this many expansions (0 = unlimited)")
	return cmd
}
