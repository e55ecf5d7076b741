package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"expense-api/internal/auth"
	"expense-api/internal/service"
)

// writeError maps a service error onto a status code and a client-safe body.
func (h *Handler) writeError(c *gin.Context, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, auth.ErrUnauthenticated):
		h.logger.WithError(err).Debug("rejected unauthenticated request")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
	default:
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
