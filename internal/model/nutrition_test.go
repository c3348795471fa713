package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recetario/backend/internal/apperror"
)

func rice() *Ingredient {
	return &Ingredient{
		Name:     "Arroz blanco",
		BaseUnit: "gramos",
		Calories: 130,
		Carbs:    28,
		Fiber:    0.6,
		Sugar:    0.1,
		TotalFat: 0.3,
		Protein:  2.7,
		CustomUnits: []CustomUnit{
			{Name: "Taza", Amount: 200},
			{Name: "Cucharada", Amount: 15},
		},
	}
}

func TestToBaseQuantity(t *testing.T) {
	ing := rice()

	tests := []struct {
		unit     string
		quantity float64
		want     float64
	}{
		{"Taza", 2, 400},
		{"taza", 0.5, 100},
		{" Cucharada ", 3, 45},
		{"gramos", 50, 50},
		{"GRAMOS", 50, 50},
		{"", 80, 80},
		{"Taza", 0, 0},
	}

	for _, tt := range tests {
		got, err := ing.ToBaseQuantity(tt.unit, tt.quantity)
		require.NoError(t, err, tt.unit)
		assert.InDelta(t, tt.want, got, 1e-9, tt.unit)
	}
}

func TestToBaseQuantityUnknownUnit(t *testing.T) {
	_, err := rice().ToBaseQuantity("Vaso", 1)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestToBaseQuantityNegative(t *testing.T) {
	_, err := rice().ToBaseQuantity("Taza", -1)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestNutritionForScalesPer100(t *testing.T) {
	n := rice().NutritionFor(200)

	assert.InDelta(t, 260, n.Calories, 1e-9)
	assert.InDelta(t, 56, n.Carbs, 1e-9)
	assert.InDelta(t, 1.2, n.Fiber, 1e-9)
	assert.InDelta(t, 0.2, n.Sugar, 1e-9)
	assert.InDelta(t, 0.6, n.TotalFat, 1e-9)
	assert.InDelta(t, 5.4, n.Protein, 1e-9)
}

func TestNutritionAdd(t *testing.T) {
	a := Nutrition{Calories: 100, Protein: 2}
	b := Nutrition{Calories: 50, Protein: 1.5, Fiber: 1}

	sum := a.Add(b)
	assert.Equal(t, Nutrition{Calories: 150, Protein: 3.5, Fiber: 1}, sum)
}

func TestToBaseQuantityOverflow(t *testing.T) {
	_, err := rice().ToBaseQuantity("Taza", 1e308)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, "quantity", apperror.FieldsOf(err)[0].Field)

	_, err = rice().ToBaseQuantity("Taza", math.Inf(1))
	assert.True(t, apperror.IsValidation(err))
}

func TestNutritionCheckFinite(t *testing.T) {
	assert.NoError(t, Nutrition{Calories: 1e308}.CheckFinite())

	total := Nutrition{Calories: 1e308}.Add(Nutrition{Calories: 1e308})
	assert.False(t, total.IsFinite())
	assert.True(t, apperror.IsValidation(total.CheckFinite()))

	assert.False(t, Nutrition{Protein: math.NaN()}.IsFinite())
}
