// internal/optimizer/exhaustive.go
package optimizer

import (
	"errors"
	"fmt"

	"mcp-max-protein/internal/models"
)

// MaxExhaustiveCandidates is the exclusive upper bound on the candidate count
// SelectExhaustive accepts; every subset must fit in a uint64 mask.
const MaxExhaustiveCandidates = 64

// ErrTooManyCandidates is returned by SelectExhaustive for 64 or more
// candidates.
var ErrTooManyCandidates = errors.New("too many candidates for exhaustive search")

// SelectExhaustive tries every subset of candidates and returns the one with
// the greatest total protein whose energy fits in budgetKcal. Bit i of the
// mask selects candidates[i]; among equal-protein subsets the lowest mask
// wins, so the empty subset is the answer when nothing else fits.
func SelectExhaustive(candidates models.Catalog, budgetKcal int) (models.Selection, error) {
	n := len(candidates)
	if n >= MaxExhaustiveCandidates {
		return nil, fmt.Errorf("%w: got %d, limit is %d", ErrTooManyCandidates, n, MaxExhaustiveCandidates-1)
	}

	var (
		limit       = uint64(1) << uint(n)
		bestMask    uint64
		bestProtein = -1
	)
	for mask := uint64(0); mask < limit; mask++ {
		kcal, protein := 0, 0
		for i := 0; i < n; i++ {
			if mask>>uint(i)&1 == 1 {
				kcal += candidates[i].EnergyKcal
				protein += candidates[i].ProteinGrams
			}
		}
		if kcal <= budgetKcal && protein > bestProtein {
			bestMask, bestProtein = mask, protein
		}
	}

	// bestProtein stays -1 only for a negative budget.
	result := models.Selection{}
	if bestProtein < 0 {
		return result, nil
	}
	for i := 0; i < n; i++ {
		if bestMask>>uint(i)&1 == 1 {
			result = append(result, candidates[i])
		}
	}
	return result, nil
}
