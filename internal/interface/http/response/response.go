package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gigmarket-backend/internal/logger"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

func Paginated(c *gin.Context, data interface{}, total, limit, offset int) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Success: true,
		Data:    data,
		Pagination: Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+limit < total,
		},
	})
}

// Error отдаёт AppError с его кодом и статусом; остальные ошибки маскируются как внутренние.
func Error(c *gin.Context, err error) {
	status, info := errorInfo(err)
	if status >= http.StatusInternalServerError {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("ошибка обработки запроса")
	}
	c.JSON(status, Response{Success: false, Error: info})
}

// Abort - как Error, но прерывает цепочку обработчиков.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

func errorInfo(err error) (int, *ErrorInfo) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		info := &ErrorInfo{Code: string(appErr.Code), Message: appErr.Message}
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			// детали хранилища не отдаём клиенту
			info.Message = "внутренняя ошибка сервера"
		}
		return appErr.HTTPStatus, info
	}

	return http.StatusInternalServerError, &ErrorInfo{
		Code:    string(apperror.ErrCodeInternal),
		Message: "внутренняя ошибка сервера",
	}
}

func BadRequest(c *gin.Context, message string) {
	Error(c, apperror.New(apperror.ErrCodeBadRequest, message))
}

func ValidationError(c *gin.Context, message string) {
	Error(c, apperror.New(apperror.ErrCodeValidation, message))
}

func NotFound(c *gin.Context, message string) {
	Error(c, apperror.New(apperror.ErrCodeNotFound, message))
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, apperror.New(apperror.ErrCodeUnauthorized, message))
}

func Forbidden(c *gin.Context, message string) {
	Error(c, apperror.New(apperror.ErrCodeForbidden, message))
}
