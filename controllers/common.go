package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MirOrlov/foodgram/services"
	"github.com/MirOrlov/foodgram/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// handleServiceError maps the service error taxonomy onto HTTP responses.
// Validation and conflict errors are client faults and are never logged as
// server errors.
func handleServiceError(c *gin.Context, err error) {
	var (
		composition *services.CompositionError
		duplicate   *services.DuplicateRelationError
		self        *services.SelfRelationError
		notFound    *services.NotFoundError
		notOwner    *services.NotOwnerError
	)
	switch {
	case errors.As(err, &composition):
		c.JSON(http.StatusBadRequest, composition.Fields)
	case errors.As(err, &self), errors.As(err, &duplicate):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	case errors.As(err, &notFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Страница не найдена."})
	case errors.As(err, &notOwner):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	default:
		utils.Log().Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Внутренняя ошибка сервера."})
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Страница не найдена."})
		return 0, false
	}
	return uint(id), true
}
