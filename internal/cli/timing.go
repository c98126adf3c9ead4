// internal/cli/timing.go
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mcp-max-protein/internal/report"
	"mcp-max-protein/internal/timing"
)

func newTimingCommand(a *app) *cobra.Command {
	var cases, output string

	cmd := &cobra.Command{
		Use:   "timing",
		Short: "Time both selectors over a sweep of candidate counts",
		Long: `Run the greedy selector, and the exhaustive selector where the candidate
count allows, for each n:budget case. By default the sweep is n = 10, 12, ...,
62 with a 1000 kcal budget. Exhaustive search is skipped above
--max-exhaustive.`,
		Example: `  max-protein timing --cases 10:1000,20:1500 --max-exhaustive 20`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := report.ParseFormat(output)
			if err != nil {
				return err
			}
			sweep, err := parseCases(cases)
			if err != nil {
				return err
			}

			catalog, err := loadCatalog(cmd.Context(), a.cfg.DBPath)
			if err != nil {
				return err
			}

			measurements, err := timing.Run(cmd.Context(), catalog, sweep, timing.Options{
				MaxExhaustive: a.cfg.Exhaustive.MaxCount,
			})
			if err != nil {
				return err
			}
			return report.WriteTimings(cmd.OutOrStdout(), format, measurements)
		},
	}

	cmd.Flags().StringVar(&cases, "cases", "", "comma-separated n:budget pairs (default: the classic sweep)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")
	cmd.Flags().Int("max-exhaustive", 0, "largest candidate count to run exhaustive search for (at most 63)")
	mustBind(a.v, "exhaustive.max_count", cmd.Flags().Lookup("max-exhaustive"))
	return cmd
}

// parseCases reads "n:budget,n:budget". An empty string means DefaultCases.
func parseCases(s string) ([]timing.Case, error) {
	if strings.TrimSpace(s) == "" {
		return timing.DefaultCases(), nil
	}

	var cases []timing.Case
	for _, part := range strings.Split(s, ",") {
		n, budget, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("invalid case %q: want n:budget", part)
		}
		count, err := strconv.Atoi(n)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("invalid candidate count in case %q", part)
		}
		kcal, err := strconv.Atoi(budget)
		if err != nil {
			return nil, fmt.Errorf("invalid budget in case %q", part)
		}
		cases = append(cases, timing.Case{CandidateCount: count, BudgetKcal: kcal})
	}
	return cases, nil
}
