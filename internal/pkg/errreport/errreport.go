// Package errreport отправляет ошибки, которые нельзя вернуть вызывающему, в лог и в Sentry.
package errreport

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/ignatzorin/gigmarket-backend/internal/logger"
	"github.com/sirupsen/logrus"
)

// Init подключает Sentry. Пустой dsn оставляет только логирование.
func Init(dsn, environment string) error {
	if dsn == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
	})
}

func Flush() {
	sentry.Flush(2 * time.Second)
}

// Report пишет ошибку в лог и передаёт её в Sentry вместе с полями.
// Если в контексте есть hub запроса (sentrygin), событие уходит через него.
func Report(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}
	logger.Log.WithFields(fields).WithError(err).Error(message)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("message", message)
		for k, v := range fields {
			scope.SetExtra(k, v)
		}
		hub.CaptureException(err)
	})
}
