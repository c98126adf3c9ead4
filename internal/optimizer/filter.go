// internal/optimizer/filter.go
package optimizer

import "mcp-max-protein/internal/models"

// Filter returns, in catalog order, the first maxCount foods whose energy is
// strictly between minKcal and maxKcal.
func Filter(catalog models.Catalog, minKcal, maxKcal, maxCount int) models.Catalog {
	if maxCount <= 0 {
		return models.Catalog{}
	}

	out := make(models.Catalog, 0, min(maxCount, len(catalog)))
	for _, food := range catalog {
		if len(out) == maxCount {
			break
		}
		if food.EnergyKcal > minKcal && food.EnergyKcal < maxKcal {
			out = append(out, food)
		}
	}
	return out
}
