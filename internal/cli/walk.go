package cli

import (
	"fmt"
	"time"

	"github.com/muesli/termenv"
	"github.com/pdrpinto/gridpath"
	"github.com/pdrpinto/gridpath/agent"
	"github.com/pdrpinto/gridpath/internal/render"
	"github.com/spf13/cobra"
)

func newWalkCommand(opts *globalOptions) *cobra.Command {
	var (
		tick   time.Duration
		frames bool
	)
	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Walk the agent along the path, one cell per tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			scenario, grid, err := opts.scenario()
			if err != nil {
				return err
			}
			if tick <= 0 {
				tick = scenario.Tick
			}

			start, goal := scenario.StartCell(), scenario.GoalCell()
			path, err := gridpath.FindPath(grid, start, goal)
			if err != nil {
				return err
			}
			if len(path) == 0 {
				logger.Warn("nothing to walk", "start", start, "goal", goal)
			}

			out := cmd.OutOrStdout()
			profile := termenv.EnvColorProfile()
			walker := agent.New(start, path)
			logger.Info("walking", "steps", len(path), "tick", tick)
			return agent.Run(cmd.Context(), walker, tick, func(c gridpath.Cell) {
				if frames {
					position := c
					_ = render.Write(out, profile, render.Frame{Grid: grid, Path: path, Start: start, Goal: goal, Agent: &position})
				}
				fmt.Fprintf(out, "%d/%d %v\n", walker.Index(), len(path), c)
			})
		},
	}
	cmd.Flags().DurationVar(&tick, "tick", 0, "Interval between moves (defaults to the scenario tick)")
	cmd.Flags().BoolVar(&frames, "frames", false, "Draw the grid on every move")
	return cmd
}
