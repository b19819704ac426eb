package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pdrpinto/gridpath"
	"github.com/spf13/cobra"
)

type batchOutput struct {
	Start [2]int   `json:"start"`
	Goal  [2]int   `json:"goal"`
	Found bool     `json:"found"`
	Cost  int      `json:"cost"`
	Path  [][2]int `json:"path"`
	Error string   `json:"error,omitempty"`
}

func newBatchCommand(opts *globalOptions) *cobra.Command {
	var (
		queries []string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Solve many start:goal queries on the scenario grid in parallel",
		Example: `  gridpath batch -q 0,0:9,9 -q 9,0:0,9
  gridpath batch --config maze.yaml -q 1,1:8,8 --workers 2 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			_, grid, err := opts.scenario()
			if err != nil {
				return err
			}

			parsed := make([]gridpath.Query, 0, len(queries))
			for _, q := range queries {
				query, err := parseQuery(q)
				if err != nil {
					return err
				}
				parsed = append(parsed, query)
			}

			options := []gridpath.Option{gridpath.WithLogger(logger)}
			if workers > 0 {
				options = append(options, gridpath.WithWorkers(workers))
			}
			answers, err := gridpath.SolveAll(cmd.Context(), grid, parsed, options...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				results := make([]batchOutput, 0, len(answers))
				for _, a := range answers {
					o := batchOutput{
						Start: [2]int{a.Query.Start.X, a.Query.Start.Y},
						Goal:  [2]int{a.Query.Goal.X, a.Query.Goal.Y},
						Found: a.Result.Found,
						Cost:  a.Result.Cost,
						Path:  cellPairs(a.Result.Path),
					}
					if a.Err != nil {
						o.Error = a.Err.Error()
					}
					results = append(results, o)
				}
				return writeJSON(out, results)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "START\tGOAL\tRESULT\tEXPANDED")
			for _, a := range answers {
				status := fmt.Sprintf("%d steps", a.Result.Cost)
				switch {
				case a.Err != nil:
					status = "error: " + a.Err.Error()
				case !a.Result.Found:
					status = "no path"
				}
				fmt.Fprintf(tw, "%v\t%v\t%s\t%d\n", a.Query.Start, a.Query.Goal, status, a.Result.Expanded)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "Query as sx,sy:gx,gy (repeatable)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker goroutines (default: number of CPUs)")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

func parseQuery(s string) (gridpath.Query, error) {
	from, to, ok := strings.Cut(s, ":")
	if !ok {
		return gridpath.Query{}, fmt.Errorf("invalid query %q: want sx,sy:gx,gy", s)
	}
	start, err := parseCell(from)
	if err != nil {
		return gridpath.Query{}, err
	}
	goal, err := parseCell(to)
	if err != nil {
		return gridpath.Query{}, err
	}
	return gridpath.Query{Start: start, Goal: goal}, nil
}
