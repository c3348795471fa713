package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/pageza/recetario/backend/internal/apperror"
)

// Nutrition holds absolute nutrient amounts for a portion.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	TotalFat float64 `json:"totalFat"`
	Protein  float64 `json:"protein"`
}

// Add returns the sum of two portions.
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Carbs:    n.Carbs + o.Carbs,
		Fiber:    n.Fiber + o.Fiber,
		Sugar:    n.Sugar + o.Sugar,
		TotalFat: n.TotalFat + o.TotalFat,
		Protein:  n.Protein + o.Protein,
	}
}

// IsFinite reports whether every nutrient is a finite number
func (n Nutrition) IsFinite() bool {
	for _, v := range []float64{n.Calories, n.Carbs, n.Fiber, n.Sugar, n.TotalFat, n.Protein} {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// CheckFinite fails with a quantity validation error when a computed total overflowed
func (n Nutrition) CheckFinite() error {
	if !n.IsFinite() {
		return errQuantityTooLarge
	}
	return nil
}

var errQuantityTooLarge = apperror.Validation(apperror.FieldError{Field: "quantity", Message: "result is too large"})

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FindCustomUnit looks a custom unit up by name, ignoring case and surrounding spaces.
func (i *Ingredient) FindCustomUnit(name string) (*CustomUnit, bool) {
	name = strings.TrimSpace(name)
	for idx := range i.CustomUnits {
		if strings.EqualFold(i.CustomUnits[idx].Name, name) {
			return &i.CustomUnits[idx], true
		}
	}
	return nil, false
}

// ToBaseQuantity converts quantity expressed in unit to the ingredient's base unit.
// An empty unit, or the base unit itself, leaves the quantity unchanged.
func (i *Ingredient) ToBaseQuantity(unit string, quantity float64) (float64, error) {
	if !isFinite(quantity) || quantity < 0 {
		return 0, apperror.Validation(apperror.FieldError{Field: "quantity", Message: "must be a non-negative number"})
	}

	unit = strings.TrimSpace(unit)
	if unit == "" || strings.EqualFold(unit, i.BaseUnit) {
		return quantity, nil
	}

	cu, ok := i.FindCustomUnit(unit)
	if !ok {
		return 0, apperror.Validation(apperror.FieldError{
			Field:   "unit",
			Message: fmt.Sprintf("unknown unit %q for ingredient %s", unit, i.Name),
		})
	}
	base := quantity * cu.Amount
	if !isFinite(base) {
		return 0, errQuantityTooLarge
	}
	return base, nil
}

// NutritionFor scales the per-100 values to baseQuantity base units.
func (i *Ingredient) NutritionFor(baseQuantity float64) Nutrition {
	f := baseQuantity / 100
	return Nutrition{
		Calories: i.Calories * f,
		Carbs:    i.Carbs * f,
		Fiber:    i.Fiber * f,
		Sugar:    i.Sugar * f,
		TotalFat: i.TotalFat * f,
		Protein:  i.Protein * f,
	}
}
