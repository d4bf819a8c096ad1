package logger

import (
	"github.com/sirupsen/logrus"
)

// Log доступен сразу: до Init пишет текстом на уровне info (удобно для тестов).
var Log = logrus.New()

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// Используем JSON формат для production, text для development
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// Setup настраивает логгер под окружение: debug и текст в development, info и JSON иначе.
func Setup(env string) {
	if env == "development" {
		Init("debug")
		SetTextFormatter()
		return
	}
	Init("info")
}

// Component возвращает логгер с полем component.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
