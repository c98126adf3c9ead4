// internal/timing/timing.go
package timing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"mcp-max-protein/internal/models"
	"mcp-max-protein/internal/optimizer"
)

// DefaultBudgetKcal is the budget used by DefaultCases.
const DefaultBudgetKcal = 1000

// Case is one point in a timing sweep.
type Case struct {
	CandidateCount int `json:"candidate_count" yaml:"candidate_count"`
	BudgetKcal     int `json:"budget_kcal" yaml:"budget_kcal"`
}

// Options tunes a sweep.
type Options struct {
	// MaxExhaustive is the largest candidate count exhaustive search is run
	// for; larger cases time greedy only. Values of 64 or more are capped.
	MaxExhaustive int
	Logger        *slog.Logger
}

// Timed is one selector run within a sweep.
type Timed struct {
	EnergyKcal   int           `json:"energy_kcal" yaml:"energy_kcal"`
	ProteinGrams int           `json:"protein_grams" yaml:"protein_grams"`
	Items        int           `json:"items" yaml:"items"`
	Elapsed      time.Duration `json:"elapsed_ns" yaml:"elapsed"`
}

// Measurement is the outcome of one Case. Exhaustive is nil when the case
// was too large for exhaustive search.
type Measurement struct {
	CandidateCount int    `json:"candidate_count" yaml:"candidate_count"`
	BudgetKcal     int    `json:"budget_kcal" yaml:"budget_kcal"`
	Greedy         Timed  `json:"greedy" yaml:"greedy"`
	Exhaustive     *Timed `json:"exhaustive,omitempty" yaml:"exhaustive,omitempty"`
}

// DefaultCases is the classic sweep: n = 10, 12, ..., 62 at 1000 kcal.
func DefaultCases() []Case {
	var cases []Case
	for n := 10; n <= 62; n += 2 {
		cases = append(cases, Case{CandidateCount: n, BudgetKcal: DefaultBudgetKcal})
	}
	return cases
}

// Run times both selectors for each case, in order. Candidates are the first
// CandidateCount foods with positive energy. The sweep stops between cases
// when ctx is done; a selector that has started always runs to completion.
func Run(ctx context.Context, catalog models.Catalog, cases []Case, opts Options) ([]Measurement, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxExhaustive := min(opts.MaxExhaustive, optimizer.MaxExhaustiveCandidates-1)

	measurements := make([]Measurement, 0, len(cases))
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return measurements, fmt.Errorf("timing sweep interrupted: %w", err)
		}

		candidates := optimizer.Filter(catalog, 0, math.MaxInt, c.CandidateCount)
		if len(candidates) < c.CandidateCount {
			return measurements, fmt.Errorf("catalog has only %d usable foods, case needs %d",
				len(candidates), c.CandidateCount)
		}

		m := Measurement{CandidateCount: c.CandidateCount, BudgetKcal: c.BudgetKcal}

		start := time.Now()
		greedy := optimizer.SelectGreedy(candidates, c.BudgetKcal)
		m.Greedy = timed(greedy, time.Since(start))

		if c.CandidateCount <= maxExhaustive {
			start = time.Now()
			best, err := optimizer.SelectExhaustive(candidates, c.BudgetKcal)
			if err != nil {
				return measurements, fmt.Errorf("exhaustive search at n=%d: %w", c.CandidateCount, err)
			}
			ex := timed(best, time.Since(start))
			m.Exhaustive = &ex
		} else {
			logger.Debug("skipping exhaustive search", "n", c.CandidateCount, "max", maxExhaustive)
		}

		logger.Info("timing case complete",
			"n", m.CandidateCount,
			"budget_kcal", m.BudgetKcal,
			"greedy_protein", m.Greedy.ProteinGrams,
			"greedy_elapsed", m.Greedy.Elapsed,
			"exhaustive_ran", m.Exhaustive != nil)

		measurements = append(measurements, m)
	}

	return measurements, nil
}

func timed(sel models.Selection, elapsed time.Duration) Timed {
	t := sel.Totals()
	return Timed{
		EnergyKcal:   t.EnergyKcal,
		ProteinGrams: t.ProteinGrams,
		Items:        len(sel),
		Elapsed:      elapsed,
	}
}
