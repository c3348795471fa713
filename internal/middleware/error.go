package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler recovers from panics in later handlers and answers with a JSON 500
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(c.Request.Context(), "panic while handling request",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Error interno del servidor"})
			}
		}()

		c.Next()
	}
}

// NoRoute answers unknown paths with a JSON 404
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Ruta no encontrada"})
}
