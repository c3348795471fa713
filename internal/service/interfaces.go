package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/pageza/recetario/backend/internal/model"
)

// IIngredientService defines the interface for ingredient operations
type IIngredientService interface {
	ListIngredients(ctx context.Context) ([]*model.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	CreateIngredient(ctx context.Context, in *model.IngredientInput) (*model.Ingredient, error)
	UpdateIngredient(ctx context.Context, id uuid.UUID, in *model.IngredientInput) (*model.Ingredient, error)
	DeleteIngredient(ctx context.Context, id uuid.UUID) error
	SeedIngredients(ctx context.Context) (int, error)
	ConvertPortion(ctx context.Context, id uuid.UUID, unit string, quantity float64) (*Portion, error)
	SumPortions(ctx context.Context, reqs []PortionRequest) (*PortionSummary, error)
}

// IImageService defines the interface for image uploads
type IImageService interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// IImageStore persists image bytes and returns the URL they are served from
type IImageStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

var (
	_ IIngredientService = (*IngredientService)(nil)
	_ IImageService      = (*ImageService)(nil)
	_ IImageStore        = (*LocalImageStore)(nil)
	_ IImageStore        = (*S3ImageStore)(nil)
)
