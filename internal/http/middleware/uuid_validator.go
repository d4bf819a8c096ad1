package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// UUIDValidator проверяет, что параметр пути является валидным UUID.
// Использование: router.GET("/gigs/:id", UUIDValidator("id"), handler.GetGig)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		if idStr == "" {
			response.Abort(c, apperror.New(apperror.ErrCodeBadRequest, "параметр "+paramName+" обязателен"))
			return
		}

		if _, err := uuid.Parse(idStr); err != nil {
			response.Abort(c, apperror.New(apperror.ErrCodeBadRequest, "параметр "+paramName+" должен быть валидным UUID"))
			return
		}

		c.Next()
	}
}
