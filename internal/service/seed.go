package service

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/apperror"
	"github.com/pageza/recetario/backend/internal/model"
)

// ExampleIngredients is the fixed demo data set written by SeedIngredients
var ExampleIngredients = []model.IngredientInput{
	{
		Name:        "Arroz blanco",
		Description: "Arroz blanco de grano largo",
		ImageURL:    "https://images.unsplash.com/photo-1516684732162-798a0062be99?auto=format&fit=crop&q=80&w=800",
		BaseUnit:    "gramos",
		Calories:    130,
		Carbs:       28,
		Fiber:       0.6,
		Sugar:       0.1,
		TotalFat:    0.3,
		Protein:     2.7,
		CustomUnits: []model.CustomUnitInput{
			{Name: "Taza", Amount: 200},
			{Name: "Cucharada", Amount: 15},
		},
	},
	{
		Name:        "Leche entera",
		Description: "Leche de vaca entera",
		ImageURL:    "https://images.unsplash.com/photo-1550583724-b2692b85b150?auto=format&fit=crop&q=80&w=800",
		BaseUnit:    "mililitros",
		Calories:    61,
		Carbs:       4.8,
		Fiber:       0,
		Sugar:       4.8,
		TotalFat:    3.3,
		Protein:     3.2,
		CustomUnits: []model.CustomUnitInput{
			{Name: "Taza", Amount: 250},
			{Name: "Vaso", Amount: 200},
		},
	},
	{
		Name:        "Huevo",
		Description: "Huevo de gallina mediano",
		ImageURL:    "https://images.unsplash.com/photo-1582722872445-44dc5f7e3c8f?auto=format&fit=crop&q=80&w=800",
		BaseUnit:    "unidades",
		Calories:    72,
		Carbs:       0.6,
		Fiber:       0,
		Sugar:       0.6,
		TotalFat:    4.8,
		Protein:     6.3,
	},
	{
		Name:        "Harina de trigo",
		Description: "Harina de trigo todo uso",
		ImageURL:    "https://images.unsplash.com/photo-1574323347407-f5e1ad6d020b?auto=format&fit=crop&q=80&w=800",
		BaseUnit:    "gramos",
		Calories:    364,
		Carbs:       76,
		Fiber:       2.7,
		Sugar:       0.3,
		TotalFat:    1,
		Protein:     10,
		CustomUnits: []model.CustomUnitInput{
			{Name: "Taza", Amount: 120},
			{Name: "Cucharada", Amount: 8},
		},
	},
}

// SeedIngredients replaces every stored ingredient with ExampleIngredients.
// Running it repeatedly always leaves exactly the example set.
func (s *IngredientService) SeedIngredients(ctx context.Context) (int, error) {
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&model.CustomUnit{}).Error; err != nil {
			return apperror.Storage("clear custom units", err)
		}
		if err := all.Delete(&model.Ingredient{}).Error; err != nil {
			return apperror.Storage("clear ingredients", err)
		}

		for i := range ExampleIngredients {
			in := ExampleIngredients[i]
			if err := tx.Create(in.ToIngredient()).Error; err != nil {
				return apperror.Storage("seed ingredient "+in.Name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "example ingredients seeded", "count", created)
	return created, nil
}
