package model

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recetario/backend/internal/apperror"
)

func validInput() IngredientInput {
	return IngredientInput{
		Name:     "Arroz blanco",
		BaseUnit: "gramos",
		Calories: 130,
		Carbs:    28,
		Fiber:    0.6,
		CustomUnits: []CustomUnitInput{
			{Name: "Taza", Amount: 200},
		},
	}
}

func TestValidateAcceptsValidInput(t *testing.T) {
	in := validInput()
	assert.NoError(t, in.Validate())
}

func TestValidateAcceptsEveryBaseUnit(t *testing.T) {
	for _, unit := range BaseUnits {
		in := validInput()
		in.BaseUnit = unit
		assert.NoError(t, in.Validate(), unit)
	}
}

func TestValidateReportsAllViolations(t *testing.T) {
	in := IngredientInput{
		Name:     "",
		BaseUnit: "cups",
		Calories: -1,
		Protein:  math.NaN(),
		CustomUnits: []CustomUnitInput{
			{Name: "", Amount: 10},
			{Name: "Taza", Amount: 0},
		},
	}

	err := in.Validate()
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	fields := map[string]bool{}
	for _, f := range apperror.FieldsOf(err) {
		fields[f.Field] = true
	}
	for _, want := range []string{"name", "baseUnit", "calories", "protein", "customUnits[0].name", "customUnits[1].amount"} {
		assert.True(t, fields[want], "missing violation for %s", want)
	}
}

func TestValidateRejectsDuplicateUnitNames(t *testing.T) {
	in := validInput()
	in.CustomUnits = append(in.CustomUnits, CustomUnitInput{Name: "taza", Amount: 250})

	err := in.Validate()
	require.Error(t, err)
	fields := apperror.FieldsOf(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "customUnits[1].name", fields[0].Field)
}

func TestNormalizeTrimsText(t *testing.T) {
	in := IngredientInput{
		Name:        "  Huevo ",
		BaseUnit:    " unidades",
		CustomUnits: []CustomUnitInput{{Name: " Docena ", Amount: 12}},
	}
	in.Normalize()

	assert.Equal(t, "Huevo", in.Name)
	assert.Equal(t, "unidades", in.BaseUnit)
	assert.Equal(t, "Docena", in.CustomUnits[0].Name)
	assert.NoError(t, in.Validate())
}

func TestApplyToOverwritesZeroValues(t *testing.T) {
	ing := &Ingredient{Name: "Old", Description: "desc", Calories: 100, Sugar: 5}
	in := IngredientInput{Name: "New", BaseUnit: "gramos"}

	in.ApplyTo(ing)

	assert.Equal(t, "New", ing.Name)
	assert.Empty(t, ing.Description)
	assert.Zero(t, ing.Calories)
	assert.Zero(t, ing.Sugar)
}

func TestBuildCustomUnitsSetsOwner(t *testing.T) {
	in := validInput()
	id := uuid.New()

	units := in.BuildCustomUnits(id)
	require.Len(t, units, 1)
	assert.Equal(t, id, units[0].IngredientID)
	assert.Equal(t, "Taza", units[0].Name)
	assert.Equal(t, 200.0, units[0].Amount)
	assert.Equal(t, uuid.Nil, units[0].ID)
}

func TestToIngredientWithoutUnits(t *testing.T) {
	in := validInput()
	in.CustomUnits = nil

	ing := in.ToIngredient()
	assert.NotNil(t, ing.CustomUnits)
	assert.Empty(t, ing.CustomUnits)
	assert.Equal(t, 0.6, ing.Fiber)
}

func TestValidateRejectsBaseUnitAsUnitName(t *testing.T) {
	in := validInput()
	in.CustomUnits = append(in.CustomUnits, CustomUnitInput{Name: "Gramos", Amount: 1})

	err := in.Validate()
	require.Error(t, err)
	fields := apperror.FieldsOf(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "customUnits[1].name", fields[0].Field)
}

func TestValidateRejectsOversizedValues(t *testing.T) {
	in := validInput()
	in.Calories = 1e308
	in.CustomUnits[0].Amount = 1e308

	err := in.Validate()
	require.Error(t, err)
	fields := map[string]bool{}
	for _, f := range apperror.FieldsOf(err) {
		fields[f.Field] = true
	}
	assert.True(t, fields["calories"])
	assert.True(t, fields["customUnits[0].amount"])

	in = validInput()
	in.Calories = MaxNutrientValue
	in.CustomUnits[0].Amount = MaxUnitAmount
	assert.NoError(t, in.Validate())
}
