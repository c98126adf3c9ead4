package optimizer_test

import (
	"fmt"

	"mcp-max-protein/internal/models"
	"mcp-max-protein/internal/optimizer"
)

// Greedy commits to Z, the single highest-protein food, and then has no room
// for X or Y. Exhaustive search finds that X and Y together are better.
func Example() {
	catalog := models.Catalog{
		{Description: "X", ServingLabel: "1 cup", EnergyKcal: 60, ProteinGrams: 10},
		{Description: "Y", ServingLabel: "1 cup", EnergyKcal: 60, ProteinGrams: 10},
		{Description: "Z", ServingLabel: "1 cup", EnergyKcal: 100, ProteinGrams: 15},
		{Description: "water", ServingLabel: "1 cup", EnergyKcal: 0, ProteinGrams: 0},
	}
	candidates := optimizer.Filter(catalog, 0, 1000, 10)

	greedy := optimizer.SelectGreedy(candidates, 120)
	best, err := optimizer.SelectExhaustive(candidates, 120)
	if err != nil {
		panic(err)
	}

	fmt.Println("candidates:", len(candidates))
	fmt.Println("greedy:", greedy.Totals().ProteinGrams, "g")
	fmt.Println("exhaustive:", best.Totals().ProteinGrams, "g")
	// Output:
	// candidates: 3
	// greedy: 15 g
	// exhaustive: 20 g
}
