package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recetario/backend/internal/model"
	"github.com/pageza/recetario/backend/internal/service"
)

// MockIngredientService is a mock implementation of the ingredient service
type MockIngredientService struct {
	mock.Mock
}

// ListIngredients mocks the ListIngredients method
func (m *MockIngredientService) ListIngredients(ctx context.Context) ([]*model.Ingredient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ingredient), args.Error(1)
}

// GetIngredient mocks the GetIngredient method
func (m *MockIngredientService) GetIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingredient), args.Error(1)
}

// CreateIngredient mocks the CreateIngredient method
func (m *MockIngredientService) CreateIngredient(ctx context.Context, in *model.IngredientInput) (*model.Ingredient, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingredient), args.Error(1)
}

// UpdateIngredient mocks the UpdateIngredient method
func (m *MockIngredientService) UpdateIngredient(ctx context.Context, id uuid.UUID, in *model.IngredientInput) (*model.Ingredient, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingredient), args.Error(1)
}

// DeleteIngredient mocks the DeleteIngredient method
func (m *MockIngredientService) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// SeedIngredients mocks the SeedIngredients method
func (m *MockIngredientService) SeedIngredients(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// ConvertPortion mocks the ConvertPortion method
func (m *MockIngredientService) ConvertPortion(ctx context.Context, id uuid.UUID, unit string, quantity float64) (*service.Portion, error) {
	args := m.Called(ctx, id, unit, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Portion), args.Error(1)
}

// SumPortions mocks the SumPortions method
func (m *MockIngredientService) SumPortions(ctx context.Context, reqs []service.PortionRequest) (*service.PortionSummary, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PortionSummary), args.Error(1)
}
