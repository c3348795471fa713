package model

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/apperror"
)

// BaseUnits is the vocabulary an ingredient's base unit must be drawn from.
// Values are the ones the web client sends.
var BaseUnits = []string{
	"gramos",
	"mililitros",
	"unidades",
	"kilogramos",
	"litros",
	"onzas",
	"libras",
}

const (
	// MaxNutrientValue bounds each per-100 nutrient value
	MaxNutrientValue = 1e7
	// MaxUnitAmount bounds the base-unit amount of a custom unit
	MaxUnitAmount = 1e9
)

// IsBaseUnit reports whether unit belongs to the base-unit vocabulary
func IsBaseUnit(unit string) bool {
	for _, u := range BaseUnits {
		if u == unit {
			return true
		}
	}
	return false
}

// Ingredient holds nutrition facts per 100 base units and its custom units
type Ingredient struct {
	ID          uuid.UUID    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Name        string       `gorm:"size:255;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	ImageURL    string       `gorm:"size:1024" json:"imageUrl"`
	BaseUnit    string       `gorm:"size:32;not null" json:"baseUnit"`
	Calories    float64      `gorm:"not null;default:0" json:"calories"`
	Carbs       float64      `gorm:"not null;default:0" json:"carbs"`
	Fiber       float64      `gorm:"not null;default:0" json:"fiber"`
	Sugar       float64      `gorm:"not null;default:0" json:"sugar"`
	TotalFat    float64      `gorm:"not null;default:0" json:"totalFat"`
	Protein     float64      `gorm:"not null;default:0" json:"protein"`
	CustomUnits []CustomUnit `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"customUnits"`
}

// CustomUnit is a named quantity of the owning ingredient's base unit
type CustomUnit struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	IngredientID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"ingredientId"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Amount       float64   `gorm:"not null" json:"amount"`
	Position     int       `gorm:"not null;default:0" json:"-"`
}

// BeforeCreate assigns an id when none was set
func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// BeforeCreate assigns an id when none was set
func (u *CustomUnit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IngredientInput is the full payload accepted by create and update
type IngredientInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ImageURL    string            `json:"imageUrl"`
	BaseUnit    string            `json:"baseUnit"`
	Calories    float64           `json:"calories"`
	Carbs       float64           `json:"carbs"`
	Fiber       float64           `json:"fiber"`
	Sugar       float64           `json:"sugar"`
	TotalFat    float64           `json:"totalFat"`
	Protein     float64           `json:"protein"`
	CustomUnits []CustomUnitInput `json:"customUnits"`
}

// CustomUnitInput is one custom unit of an IngredientInput
type CustomUnitInput struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Normalize trims surrounding whitespace from every text field
func (in *IngredientInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.BaseUnit = strings.TrimSpace(in.BaseUnit)
	for i := range in.CustomUnits {
		in.CustomUnits[i].Name = strings.TrimSpace(in.CustomUnits[i].Name)
	}
}

// Validate checks every field and reports all violations at once
func (in *IngredientInput) Validate() error {
	var fields []apperror.FieldError
	add := func(field, msg string) {
		fields = append(fields, apperror.FieldError{Field: field, Message: msg})
	}

	if in.Name == "" {
		add("name", "is required")
	}
	if !IsBaseUnit(in.BaseUnit) {
		add("baseUnit", fmt.Sprintf("must be one of %s", strings.Join(BaseUnits, ", ")))
	}

	for _, n := range in.nutrients() {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			add(n.field, "must be a finite number")
		} else if n.value < 0 {
			add(n.field, "must be greater than or equal to 0")
		} else if n.value > MaxNutrientValue {
			add(n.field, fmt.Sprintf("must not exceed %g", float64(MaxNutrientValue)))
		}
	}

	seen := make(map[string]bool, len(in.CustomUnits))
	for i, u := range in.CustomUnits {
		prefix := fmt.Sprintf("customUnits[%d]", i)
		if u.Name == "" {
			add(prefix+".name", "is required")
		} else if strings.EqualFold(u.Name, in.BaseUnit) {
			add(prefix+".name", "must differ from the base unit")
		} else {
			key := strings.ToLower(u.Name)
			if seen[key] {
				add(prefix+".name", fmt.Sprintf("duplicate unit %q", u.Name))
			}
			seen[key] = true
		}
		if math.IsNaN(u.Amount) || math.IsInf(u.Amount, 0) || u.Amount <= 0 {
			add(prefix+".amount", "must be greater than 0")
		} else if u.Amount > MaxUnitAmount {
			add(prefix+".amount", fmt.Sprintf("must not exceed %g", float64(MaxUnitAmount)))
		}
	}

	if len(fields) > 0 {
		return apperror.Validation(fields...)
	}
	return nil
}

type namedValue struct {
	field string
	value float64
}

func (in *IngredientInput) nutrients() []namedValue {
	return []namedValue{
		{"calories", in.Calories},
		{"carbs", in.Carbs},
		{"fiber", in.Fiber},
		{"sugar", in.Sugar},
		{"totalFat", in.TotalFat},
		{"protein", in.Protein},
	}
}

// ApplyTo overwrites every scalar field of ing with the input values.
// Custom units are not touched.
func (in *IngredientInput) ApplyTo(ing *Ingredient) {
	ing.Name = in.Name
	ing.Description = in.Description
	ing.ImageURL = in.ImageURL
	ing.BaseUnit = in.BaseUnit
	ing.Calories = in.Calories
	ing.Carbs = in.Carbs
	ing.Fiber = in.Fiber
	ing.Sugar = in.Sugar
	ing.TotalFat = in.TotalFat
	ing.Protein = in.Protein
}

// BuildCustomUnits returns new CustomUnit rows owned by ingredientID
func (in *IngredientInput) BuildCustomUnits(ingredientID uuid.UUID) []CustomUnit {
	units := make([]CustomUnit, 0, len(in.CustomUnits))
	for i, u := range in.CustomUnits {
		units = append(units, CustomUnit{
			IngredientID: ingredientID,
			Name:         u.Name,
			Amount:       u.Amount,
			Position:     i,
		})
	}
	return units
}

// ToIngredient builds a new, unsaved Ingredient from the input
func (in *IngredientInput) ToIngredient() *Ingredient {
	ing := &Ingredient{}
	in.ApplyTo(ing)
	ing.CustomUnits = in.BuildCustomUnits(uuid.Nil)
	return ing
}
