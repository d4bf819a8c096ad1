package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigmarket-backend/internal/logger"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// Recovery превращает панику обработчика в INTERNAL_ERROR.
// В Sentry паника попадает через sentrygin с Repanic, поэтому Recovery стоит раньше него.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err := fmt.Errorf("panic: %v", recovered)
		logger.Log.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).WithError(err).Error("паника в обработчике")
		response.Abort(c, apperror.Wrap(err, apperror.ErrCodeInternal, "внутренняя ошибка сервера"))
	})
}

// ErrorHandler отвечает за ошибки, которые обработчики положили в c.Errors, не записав ответ.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Debug("ошибка из контекста запроса")

		response.Error(c, err.Err)
	}
}
