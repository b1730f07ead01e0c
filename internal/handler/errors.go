package handler

import (
	"errors"
	"net/http"

	"github.com/Baaaki/vwap/internal/models"
	"github.com/Baaaki/vwap/internal/repository"
	"github.com/Baaaki/vwap/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusFor maps the domain error types onto HTTP status codes.
func StatusFor(err error) int {
	var (
		notFound   *repository.NotFoundError
		duplicate  *repository.UniquenessViolation
		invalid    *models.ValidationError
		transition *models.InvalidTransitionError
		encoding   *models.EncodingError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate), errors.As(err, &transition):
		return http.StatusConflict
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity
	case errors.As(err, &encoding):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as JSON with the status from StatusFor. Resource
// handlers mounted under /api/ by the API layer answer errors through it.
// Internal errors are logged and never echoed to the client.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Log.Error("Unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(status, gin.H{
			"error":   "Internal server error",
			"message": "An unexpected error occurred",
		})
		return
	}

	body := gin.H{
		"error":   http.StatusText(status),
		"message": err.Error(),
	}
	var invalid *models.ValidationError
	if errors.As(err, &invalid) {
		body["fields"] = invalid.Fields
	}
	c.JSON(status, body)
}

// NotFound is the NoRoute handler.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "Not found",
		"message": "The requested resource was not found",
	})
}
