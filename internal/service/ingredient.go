package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recetario/backend/internal/apperror"
	"github.com/pageza/recetario/backend/internal/model"
)

const resourceIngredient = "ingredient"

// IngredientService handles ingredient persistence
type IngredientService struct {
	db *gorm.DB
}

// NewIngredientService creates a new IngredientService instance
func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// ListIngredients returns every ingredient with its custom units
func (s *IngredientService) ListIngredients(ctx context.Context) ([]*model.Ingredient, error) {
	ingredients := make([]*model.Ingredient, 0)
	err := s.db.WithContext(ctx).
		Preload("CustomUnits", orderUnits).
		Order("created_at ASC, id ASC").
		Find(&ingredients).Error
	if err != nil {
		return nil, apperror.Storage("list ingredients", err)
	}
	for _, ing := range ingredients {
		ensureUnits(ing)
	}
	return ingredients, nil
}

// GetIngredient retrieves an ingredient by ID
func (s *IngredientService) GetIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	return loadIngredient(s.db.WithContext(ctx), id)
}

// CreateIngredient validates the payload and stores the ingredient together with its custom units
func (s *IngredientService) CreateIngredient(ctx context.Context, in *model.IngredientInput) (*model.Ingredient, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ingredient := in.ToIngredient()

	// Create writes the parent and the has-many children in one transaction
	if err := s.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return nil, apperror.Storage("create ingredient", err)
	}

	slog.InfoContext(ctx, "ingredient created", "id", ingredient.ID, "custom_units", len(ingredient.CustomUnits))
	return ingredient, nil
}

// UpdateIngredient replaces every scalar field and the whole custom-unit list of an existing ingredient.
// Old custom units are deleted and the payload's units are inserted; nothing is merged.
func (s *IngredientService) UpdateIngredient(ctx context.Context, id uuid.UUID, in *model.IngredientInput) (*model.Ingredient, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated *model.Ingredient
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Ingredient
		if err := lockForUpdate(tx).First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(resourceIngredient, id.String())
			}
			return apperror.Storage("load ingredient", err)
		}

		if err := tx.Where("ingredient_id = ?", id).Delete(&model.CustomUnit{}).Error; err != nil {
			return apperror.Storage("delete custom units", err)
		}

		in.ApplyTo(&existing)
		if err := tx.Omit("CustomUnits").Save(&existing).Error; err != nil {
			return apperror.Storage("update ingredient", err)
		}

		units := in.BuildCustomUnits(id)
		if len(units) > 0 {
			if err := tx.Create(&units).Error; err != nil {
				return apperror.Storage("create custom units", err)
			}
		}

		var err error
		updated, err = loadIngredient(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "ingredient updated", "id", id, "custom_units", len(updated.CustomUnits))
	return updated, nil
}

// DeleteIngredient removes an ingredient and its custom units
func (s *IngredientService) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", id).Delete(&model.CustomUnit{}).Error; err != nil {
			return apperror.Storage("delete custom units", err)
		}

		res := tx.Delete(&model.Ingredient{}, "id = ?", id)
		if res.Error != nil {
			return apperror.Storage("delete ingredient", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound(resourceIngredient, id.String())
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "ingredient deleted", "id", id)
	return nil
}

// ConvertPortion converts a quantity in one of the ingredient's units to base units and nutrition
func (s *IngredientService) ConvertPortion(ctx context.Context, id uuid.UUID, unit string, quantity float64) (*Portion, error) {
	ingredient, err := s.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}

	unit = strings.TrimSpace(unit)
	base, err := ingredient.ToBaseQuantity(unit, quantity)
	if err != nil {
		return nil, err
	}

	if unit == "" {
		unit = ingredient.BaseUnit
	}

	nutrition := ingredient.NutritionFor(base)
	if err := nutrition.CheckFinite(); err != nil {
		return nil, err
	}

	return &Portion{
		IngredientID: ingredient.ID,
		Unit:         unit,
		Quantity:     quantity,
		BaseUnit:     ingredient.BaseUnit,
		BaseQuantity: base,
		Nutrition:    nutrition,
	}, nil
}

// Portion is an amount of one ingredient with its nutrition
type Portion struct {
	IngredientID uuid.UUID       `json:"ingredientId"`
	Unit         string          `json:"unit"`
	Quantity     float64         `json:"quantity"`
	BaseUnit     string          `json:"baseUnit"`
	BaseQuantity float64         `json:"baseQuantity"`
	Nutrition    model.Nutrition `json:"nutrition"`
}

func loadIngredient(db *gorm.DB, id uuid.UUID) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := db.Preload("CustomUnits", orderUnits).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(resourceIngredient, id.String())
		}
		return nil, apperror.Storage("get ingredient", err)
	}
	ensureUnits(&ingredient)
	return &ingredient, nil
}

// ensureUnits makes an ingredient without units serialize as [] rather than null
func ensureUnits(ing *model.Ingredient) {
	if ing.CustomUnits == nil {
		ing.CustomUnits = []model.CustomUnit{}
	}
}

// lockForUpdate serializes concurrent replacements of the same ingredient.
// SQLite has a single writer and no FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func orderUnits(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// PortionRequest identifies a quantity of one ingredient in one of its units
type PortionRequest struct {
	IngredientID uuid.UUID `json:"ingredientId"`
	Unit         string    `json:"unit"`
	Quantity     float64   `json:"quantity"`
}

// PortionSummary lists converted portions and their combined nutrition
type PortionSummary struct {
	Portions []*Portion      `json:"portions"`
	Total    model.Nutrition `json:"total"`
}

// SumPortions converts every requested portion and adds up their nutrition
func (s *IngredientService) SumPortions(ctx context.Context, reqs []PortionRequest) (*PortionSummary, error) {
	summary := &PortionSummary{Portions: make([]*Portion, 0, len(reqs))}
	for _, r := range reqs {
		p, err := s.ConvertPortion(ctx, r.IngredientID, r.Unit, r.Quantity)
		if err != nil {
			return nil, err
		}
		summary.Portions = append(summary.Portions, p)
		summary.Total = summary.Total.Add(p.Nutrition)
		if err := summary.Total.CheckFinite(); err != nil {
			return nil, err
		}
	}
	return summary, nil
}
