package valueobject

import (
	"fmt"
	"math"

	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

const DefaultCurrency = "USD"

type Money struct {
	Amount   float64
	Currency string
}

func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "сумма не может быть отрицательной")
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// NewPrice проверяет, что цена строго положительна.
func NewPrice(amount float64) (Money, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "цена должна быть положительной")
	}
	return Money{Amount: amount, Currency: DefaultCurrency}, nil
}

func Zero() Money {
	return Money{Currency: DefaultCurrency}
}

// Add и Sub не проверяют знак: баланс кошелька может уходить в минус.
func (m Money) Add(amount float64) Money {
	return Money{Amount: round2(m.Amount + amount), Currency: m.Currency}
}

func (m Money) Sub(amount float64) Money {
	return Money{Amount: round2(m.Amount - amount), Currency: m.Currency}
}

func (m Money) String() string {
	return fmt.Sprintf("%s %.2f", m.Currency, m.Amount)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
