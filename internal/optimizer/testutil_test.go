package optimizer_test

import (
	"fmt"
	"math/rand"

	"mcp-max-protein/internal/models"
)

// food builds a catalog entry with a fixed serving label.
func food(desc string, kcal, protein int) models.FoodItem {
	return models.FoodItem{
		Description:  desc,
		ServingLabel: "1 serving",
		ServingGrams: 100,
		EnergyKcal:   kcal,
		ProteinGrams: protein,
	}
}

// randomCatalog returns n foods with energy in [0, 600) and protein in [0, 40).
func randomCatalog(rng *rand.Rand, n int) models.Catalog {
	out := make(models.Catalog, n)
	for i := range out {
		out[i] = food(fmt.Sprintf("food-%d", i), rng.Intn(600), rng.Intn(40))
	}
	return out
}

func descriptions(sel models.Selection) []string {
	out := make([]string, len(sel))
	for i, f := range sel {
		out[i] = f.Description
	}
	return out
}
