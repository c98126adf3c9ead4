// internal/cli/solve.go
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mcp-max-protein/internal/models"
	"mcp-max-protein/internal/optimizer"
	"mcp-max-protein/internal/report"
	"mcp-max-protein/internal/storage"
)

func newSolveCommand(a *app) *cobra.Command {
	var algorithm, output string

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Select the foods with the most protein within a budget",
		Long: `Filter the catalog to foods whose energy is strictly between --min-kcal and
--max-kcal, keep the first --count of them, then run the greedy selector,
the exhaustive selector or both. Exhaustive search needs --count below 64.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := report.ParseFormat(output)
			if err != nil {
				return err
			}
			algs, err := parseAlgorithms(algorithm)
			if err != nil {
				return err
			}

			catalog, err := loadCatalog(cmd.Context(), a.cfg.DBPath)
			if err != nil {
				return err
			}

			f := a.cfg.Filter
			if err := checkExhaustiveCount(algs, f.MaxCount, a.cfg.Exhaustive.MaxCount); err != nil {
				return err
			}
			candidates := optimizer.Filter(catalog, f.MinKcal, f.MaxKcal, f.MaxCount)

			results := make([]*models.Result, 0, len(algs))
			for _, alg := range algs {
				res, err := runSelector(alg, candidates, a.cfg.BudgetKcal)
				if err != nil {
					return err
				}
				results = append(results, res)
			}

			return report.Write(cmd.OutOrStdout(), format, results...)
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "both", "greedy, exhaustive or both")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")
	cmd.Flags().Int("budget", 0, "kilocalorie budget")
	cmd.Flags().Int("count", 0, "maximum number of candidate foods")
	cmd.Flags().Int("min-kcal", 0, "exclusive lower kcal bound for candidates")
	cmd.Flags().Int("max-kcal", 0, "exclusive upper kcal bound for candidates")
	mustBind(a.v, "budget_kcal", cmd.Flags().Lookup("budget"))
	mustBind(a.v, "filter.max_count", cmd.Flags().Lookup("count"))
	mustBind(a.v, "filter.min_kcal", cmd.Flags().Lookup("min-kcal"))
	mustBind(a.v, "filter.max_kcal", cmd.Flags().Lookup("max-kcal"))
	return cmd
}

func parseAlgorithms(name string) ([]optimizer.Algorithm, error) {
	if name == "both" {
		return optimizer.Algorithms, nil
	}
	alg, err := optimizer.ParseAlgorithm(name)
	if err != nil {
		return nil, err
	}
	return []optimizer.Algorithm{alg}, nil
}

// checkExhaustiveCount rejects an exhaustive run whose requested candidate
// count exceeds exhaustive.max_count.
func checkExhaustiveCount(algs []optimizer.Algorithm, maxCount, limit int) error {
	for _, alg := range algs {
		if alg == optimizer.Exhaustive && maxCount > limit {
			return fmt.Errorf("--count %d exceeds exhaustive.max_count %d; raise it (at most 63) or use -a greedy",
				maxCount, limit)
		}
	}
	return nil
}

// loadCatalog reads the catalog through a read-only connection.
func loadCatalog(ctx context.Context, dbPath string) (models.Catalog, error) {
	store, err := storage.OpenReadOnly(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog (run import first?): %w", err)
	}
	defer store.Close()

	return store.LoadCatalog(ctx)
}

func runSelector(alg optimizer.Algorithm, candidates models.Catalog, budgetKcal int) (*models.Result, error) {
	res, err := optimizer.Solve(alg, candidates, budgetKcal)
	if err != nil {
		return nil, fmt.Errorf("%s selector: %w", alg, err)
	}
	res.RunID = uuid.NewString()

	slog.Debug("selection complete",
		"run_id", res.RunID,
		"algorithm", alg,
		"candidates", res.CandidateCount,
		"protein_grams", res.Totals.ProteinGrams,
		"elapsed", res.Elapsed)
	return res, nil
}
