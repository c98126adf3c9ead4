// internal/optimizer/run.go
package optimizer

import (
	"fmt"
	"strings"
	"time"

	"mcp-max-protein/internal/models"
)

// Algorithm names a selection strategy.
type Algorithm string

const (
	Greedy     Algorithm = "greedy"
	Exhaustive Algorithm = "exhaustive"
)

// Algorithms lists every supported strategy in reporting order.
var Algorithms = []Algorithm{Greedy, Exhaustive}

// ParseAlgorithm accepts an algorithm name in any case.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch alg := Algorithm(strings.ToLower(strings.TrimSpace(name))); alg {
	case Greedy, Exhaustive:
		return alg, nil
	default:
		return "", fmt.Errorf("unknown algorithm %q (want greedy or exhaustive)", name)
	}
}

// Run dispatches to the selector named by alg.
func Run(alg Algorithm, candidates models.Catalog, budgetKcal int) (models.Selection, error) {
	switch alg {
	case Greedy:
		return SelectGreedy(candidates, budgetKcal), nil
	case Exhaustive:
		return SelectExhaustive(candidates, budgetKcal)
	default:
		return nil, fmt.Errorf("unknown algorithm %q", alg)
	}
}

// Solve runs alg over candidates and wraps the selection, its totals and the
// time spent in the selector into a Result. RunID is left for the caller.
func Solve(alg Algorithm, candidates models.Catalog, budgetKcal int) (*models.Result, error) {
	start := time.Now()
	sel, err := Run(alg, candidates, budgetKcal)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	return &models.Result{
		Algorithm:      string(alg),
		BudgetKcal:     budgetKcal,
		CandidateCount: len(candidates),
		Selection:      sel,
		Totals:         sel.Totals(),
		Elapsed:        elapsed,
	}, nil
}
