// internal/models/food.go
package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFood is returned when a food record fails validation.
var ErrInvalidFood = errors.New("invalid food item")

// FoodItem is one USDA food record. Values are copied, never shared.
type FoodItem struct {
	Description  string `json:"description" yaml:"description"`
	ServingLabel string `json:"serving_label" yaml:"serving_label"`
	ServingGrams int    `json:"serving_grams" yaml:"serving_grams"`
	EnergyKcal   int    `json:"energy_kcal" yaml:"energy_kcal"`
	ProteinGrams int    `json:"protein_grams" yaml:"protein_grams"`
}

// NewFoodItem validates every field and returns the item, or an error
// wrapping ErrInvalidFood that names the first offending field.
func NewFoodItem(description, servingLabel string, servingGrams, energyKcal, proteinGrams int) (FoodItem, error) {
	switch {
	case description == "":
		return FoodItem{}, fmt.Errorf("%w: description is empty", ErrInvalidFood)
	case servingLabel == "":
		return FoodItem{}, fmt.Errorf("%w: serving label is empty", ErrInvalidFood)
	case servingGrams < 0:
		return FoodItem{}, fmt.Errorf("%w: serving grams %d is negative", ErrInvalidFood, servingGrams)
	case energyKcal < 0:
		return FoodItem{}, fmt.Errorf("%w: energy %d kcal is negative", ErrInvalidFood, energyKcal)
	case proteinGrams < 0:
		return FoodItem{}, fmt.Errorf("%w: protein %d g is negative", ErrInvalidFood, proteinGrams)
	}

	return FoodItem{
		Description:  description,
		ServingLabel: servingLabel,
		ServingGrams: servingGrams,
		EnergyKcal:   energyKcal,
		ProteinGrams: proteinGrams,
	}, nil
}

// Catalog is the ordered list of foods as they appeared in the source file.
// A Candidate Set produced by filtering is also a Catalog.
type Catalog []FoodItem

// Selection is the ordered set of foods chosen by an optimizer.
type Selection []FoodItem

// Totals are the derived sums over a Selection.
type Totals struct {
	EnergyKcal   int `json:"energy_kcal" yaml:"energy_kcal"`
	ProteinGrams int `json:"protein_grams" yaml:"protein_grams"`
}

// Totals sums energy and protein over the selection.
func (s Selection) Totals() Totals {
	var t Totals
	for _, food := range s {
		t.EnergyKcal += food.EnergyKcal
		t.ProteinGrams += food.ProteinGrams
	}
	return t
}

// Result is what the server and CLI report for one optimizer run.
type Result struct {
	RunID          string        `json:"run_id" yaml:"run_id"`
	Algorithm      string        `json:"algorithm" yaml:"algorithm"`
	BudgetKcal     int           `json:"budget_kcal" yaml:"budget_kcal"`
	CandidateCount int           `json:"candidate_count" yaml:"candidate_count"`
	Selection      Selection     `json:"selection" yaml:"selection"`
	Totals         Totals        `json:"totals" yaml:"totals"`
	Elapsed        time.Duration `json:"elapsed_ns" yaml:"elapsed"`
}

// Comparison holds a greedy and an exhaustive result over the same candidates.
type Comparison struct {
	Greedy     *Result `json:"greedy" yaml:"greedy"`
	Exhaustive *Result `json:"exhaustive" yaml:"exhaustive"`
	// ProteinGap is exhaustive protein minus greedy protein; never negative.
	ProteinGap int `json:"protein_gap" yaml:"protein_gap"`
}
