// internal/optimizer/greedy.go
package optimizer

import "mcp-max-protein/internal/models"

// SelectGreedy repeatedly takes the remaining food with the most protein
// (earliest wins on ties) and keeps it if it still fits in the budget. A food
// that does not fit is discarded for good, never retried.
func SelectGreedy(candidates models.Catalog, budgetKcal int) models.Selection {
	work := make([]models.FoodItem, len(candidates))
	copy(work, candidates)

	result := models.Selection{}
	used := 0
	for len(work) > 0 {
		best := 0
		for j := 1; j < len(work); j++ {
			if work[j].ProteinGrams > work[best].ProteinGrams {
				best = j
			}
		}

		if used+work[best].EnergyKcal <= budgetKcal {
			result = append(result, work[best])
			used += work[best].EnergyKcal
		}

		work = append(work[:best], work[best+1:]...)
	}
	return result
}
