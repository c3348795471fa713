package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/backend/internal/middleware"
	"github.com/pageza/recetario/backend/internal/service"
)

// UploadHandler handles ingredient image uploads
type UploadHandler struct {
	imageService service.IImageService
	rateLimiter  *middleware.RateLimiter
	maxBytes     int64
}

// multipart headers and boundaries on top of the image itself
const uploadOverhead = 1 << 20

// NewUploadHandler creates a new upload handler.
// A positive maxBytes caps how much of the request body is read.
func NewUploadHandler(imageService service.IImageService, rateLimiter *middleware.RateLimiter, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		imageService: imageService,
		rateLimiter:  rateLimiter,
		maxBytes:     maxBytes,
	}
}

// RegisterRoutes registers the upload route
func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/upload", h.rateLimiter.RateLimitMiddleware(), h.UploadImage)
}

// UploadImage stores the multipart "image" field and returns the URL it is served from
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+uploadOverhead)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "La imagen es demasiado grande"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se ha proporcionado ninguna imagen"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to open uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al subir la imagen"})
		return
	}
	defer file.Close()

	url, err := h.imageService.UploadImage(c.Request.Context(), fileHeader.Filename, file)
	switch {
	case errors.Is(err, service.ErrNotAnImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "El archivo no es una imagen"})
		return
	case errors.Is(err, service.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "La imagen es demasiado grande"})
		return
	case err != nil:
		slog.ErrorContext(c.Request.Context(), "image upload failed", "filename", fileHeader.Filename, "error", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al subir la imagen"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":     url,
		"message": "Imagen subida correctamente",
	})
}
