package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/http/middleware"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/response"
)

func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDValue, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, errors.New("user_id не найден в контексте")
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errors.New("некорректный формат user_id")
	}

	return userID, nil
}

// currentUser достаёт пользователя из контекста и сам отвечает 401 при ошибке.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return uuid.Nil, false
	}
	return userID, true
}

func pathUUID(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, message)
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON разбирает тело запроса; ошибки правил валидации отдаются как VALIDATION_ERROR.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.ValidationError(c, validationMessage(verrs[0]))
			return false
		}
		response.BadRequest(c, "некорректные данные запроса")
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "поле " + fe.Field() + " обязательно"
	case "notblank":
		return "поле " + fe.Field() + " не может быть пустым"
	case "max":
		return "поле " + fe.Field() + " слишком длинное"
	case "min":
		return "поле " + fe.Field() + " слишком короткое"
	case "gt":
		return "поле " + fe.Field() + " должно быть положительным"
	case "url":
		return "поле " + fe.Field() + " должно содержать корректный URL"
	default:
		return "поле " + fe.Field() + " заполнено некорректно"
	}
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
