package validation

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterRules добавляет правила проекта в валидатор.
func RegisterRules(v *validator.Validate) error {
	return v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// RegisterGinRules подключает правила к движку привязки gin.
// Вызывается один раз при старте, до SetupRouter.
func RegisterGinRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterRules(v)
}

// New создаёт отдельный валидатор с правилами проекта (используется вне HTTP, например для каталога тарифов).
func New() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterRules(v); err != nil {
		return nil, err
	}
	return v, nil
}
