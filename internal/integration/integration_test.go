package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/api"
	"github.com/pageza/recetario/backend/internal/model"
	"github.com/pageza/recetario/backend/internal/service"
	"github.com/pageza/recetario/backend/internal/testhelpers"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	store, err := service.NewLocalImageStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	router := gin.New()
	api.RegisterRoutes(router, api.Services{
		DB:             db,
		Ingredients:    service.NewIngredientService(db),
		Images:         service.NewImageService(store, 1<<20),
		MaxUploadBytes: 1 << 20,
	})
	return router, db
}

func request(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIngredientFlowOnPostgres(t *testing.T) {
	router, db := setupRouter(t)

	w := request(t, router, http.MethodPost, "/api/ingredients/seed", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(t, router, http.MethodPost, "/api/ingredients", map[string]interface{}{
		"name":     "Aceite de oliva",
		"baseUnit": "mililitros",
		"calories": 884,
		"totalFat": 100,
		"customUnits": []map[string]interface{}{
			{"name": "Cucharada", "amount": 15},
			{"name": "Chorrito", "amount": 5},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var oil model.Ingredient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &oil))

	w = request(t, router, http.MethodGet, "/api/ingredients", nil)
	var list []model.Ingredient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 5)

	w = request(t, router, http.MethodPut, "/api/ingredients/"+oil.ID.String(), map[string]interface{}{
		"name":        "Aceite de oliva virgen extra",
		"baseUnit":    "mililitros",
		"calories":    884,
		"totalFat":    100,
		"customUnits": []map[string]interface{}{{"name": "Cucharadita", "amount": 5}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var units []model.CustomUnit
	require.NoError(t, db.Where("ingredient_id = ?", oil.ID).Find(&units).Error)
	require.Len(t, units, 1)
	assert.Equal(t, "Cucharadita", units[0].Name)

	w = request(t, router, http.MethodDelete, "/api/ingredients/"+oil.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, db.Model(&model.CustomUnit{}).Where("ingredient_id = ?", oil.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConcurrentUpdatesNeverMixUnitLists(t *testing.T) {
	_, db := setupRouter(t)
	svc := service.NewIngredientService(db)
	ctx := context.Background()

	created, err := svc.CreateIngredient(ctx, &model.IngredientInput{Name: "Azúcar", BaseUnit: "gramos", Sugar: 100})
	require.NoError(t, err)

	payloads := []*model.IngredientInput{
		{Name: "Azúcar", BaseUnit: "gramos", Sugar: 100, CustomUnits: []model.CustomUnitInput{{Name: "Taza", Amount: 200}, {Name: "Cucharada", Amount: 12}}},
		{Name: "Azúcar", BaseUnit: "gramos", Sugar: 100, CustomUnits: []model.CustomUnitInput{{Name: "Sobre", Amount: 8}}},
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(in model.IngredientInput) {
			defer wg.Done()
			// a serialization failure is acceptable, a mixed result is not
			_, _ = svc.UpdateIngredient(ctx, created.ID, &in)
		}(*payloads[i%2])
	}
	wg.Wait()

	got, err := svc.GetIngredient(ctx, created.ID)
	require.NoError(t, err)

	names := make([]string, 0, len(got.CustomUnits))
	for _, u := range got.CustomUnits {
		names = append(names, u.Name)
	}
	assert.Contains(t, [][]string{{"Taza", "Cucharada"}, {"Sobre"}, {}}, names)
}
