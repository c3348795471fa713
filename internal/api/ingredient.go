package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recetario/backend/internal/apperror"
	"github.com/pageza/recetario/backend/internal/middleware"
	"github.com/pageza/recetario/backend/internal/model"
	"github.com/pageza/recetario/backend/internal/service"
)

const (
	msgIngredientNotFound = "Ingrediente no encontrado"
	msgInvalidIngredient  = "Datos de ingrediente no válidos"
	msgInvalidJSON        = "El cuerpo de la solicitud no es JSON válido"
)

// IngredientHandler serves the ingredient CRUD endpoints
type IngredientHandler struct {
	ingredientService service.IIngredientService
	seedLimiter       *middleware.RateLimiter
}

// NewIngredientHandler creates a new ingredient handler
func NewIngredientHandler(ingredientService service.IIngredientService, seedLimiter *middleware.RateLimiter) *IngredientHandler {
	return &IngredientHandler{
		ingredientService: ingredientService,
		seedLimiter:       seedLimiter,
	}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.POST("", h.CreateIngredient)
		ingredients.POST("/seed", h.seedLimiter.RateLimitMiddleware(), h.SeedIngredients)
		ingredients.POST("/nutrition", h.SumNutrition)
		ingredients.GET("/:id", h.GetIngredient)
		ingredients.PUT("/:id", h.UpdateIngredient)
		ingredients.DELETE("/:id", h.DeleteIngredient)
		ingredients.GET("/:id/portion", h.ConvertPortion)
	}
}

// ListIngredients returns every ingredient with its custom units
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredientService.ListIngredients(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error al obtener ingredientes")
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// GetIngredient returns a single ingredient
func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := ingredientID(c)
	if !ok {
		return
	}

	ingredient, err := h.ingredientService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Error al obtener ingrediente")
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

// CreateIngredient stores a new ingredient and its custom units
func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req model.IngredientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
		return
	}

	ingredient, err := h.ingredientService.CreateIngredient(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Error al crear ingrediente")
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

// UpdateIngredient replaces an ingredient, including its whole custom-unit list
func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	id, ok := ingredientID(c)
	if !ok {
		return
	}

	var req model.IngredientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
		return
	}

	ingredient, err := h.ingredientService.UpdateIngredient(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Error al actualizar ingrediente")
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

// DeleteIngredient removes an ingredient
func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	id, ok := ingredientID(c)
	if !ok {
		return
	}

	if err := h.ingredientService.DeleteIngredient(c.Request.Context(), id); err != nil {
		respondError(c, err, "Error al eliminar ingrediente")
		return
	}
	c.Status(http.StatusNoContent)
}

// SeedIngredients resets the store to the example ingredients
func (h *IngredientHandler) SeedIngredients(c *gin.Context) {
	count, err := h.ingredientService.SeedIngredients(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error al crear ingredientes de ejemplo")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Ingredientes de ejemplo creados correctamente",
		"count":   count,
	})
}

// ConvertPortion converts ?quantity= of ?unit= into base units and nutrition.
// The unit defaults to the base unit and the quantity to 1.
func (h *IngredientHandler) ConvertPortion(c *gin.Context) {
	id, ok := ingredientID(c)
	if !ok {
		return
	}

	quantity := 1.0
	if q := c.Query("quantity"); q != "" {
		parsed, err := strconv.ParseFloat(q, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cantidad no válida"})
			return
		}
		quantity = parsed
	}

	portion, err := h.ingredientService.ConvertPortion(c.Request.Context(), id, c.Query("unit"), quantity)
	if err != nil {
		respondError(c, err, "Error al calcular la porción")
		return
	}
	c.JSON(http.StatusOK, portion)
}

// SumNutritionRequest lists the portions whose nutrition is added up
type SumNutritionRequest struct {
	Portions []service.PortionRequest `json:"portions"`
}

// SumNutrition converts several portions and returns their combined nutrition
func (h *IngredientHandler) SumNutrition(c *gin.Context) {
	var req SumNutritionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
		return
	}

	summary, err := h.ingredientService.SumPortions(c.Request.Context(), req.Portions)
	if err != nil {
		respondError(c, err, "Error al calcular la información nutricional")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ingredientID parses the :id path parameter. Ids that are not UUIDs cannot exist, so they get a 404.
func ingredientID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msgIngredientNotFound})
		return uuid.Nil, false
	}
	return id, true
}

// respondError writes err with the status its kind maps to.
// Storage failures are logged and reported with fallback only.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case apperror.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": msgIngredientNotFound})
	case apperror.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   validationMessage(err),
			"details": apperror.FieldsOf(err),
		})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		_ = c.Error(err)
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": fallback})
	}
}

func validationMessage(err error) string {
	fields := apperror.FieldsOf(err)
	if len(fields) == 1 {
		switch fields[0].Field {
		case "unit":
			return "Unidad no válida para este ingrediente"
		case "quantity":
			return "Cantidad no válida"
		}
	}
	return msgInvalidIngredient
}
