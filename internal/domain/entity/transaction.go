package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// Transaction - запись в журнале кошелька.
// Внутренние записи (IsInternal) участвуют в расчёте баланса, но скрыты из истории.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Role        valueobject.WalletRole
	Kind        valueobject.TransactionKind
	Amount      float64
	GigID       *uuid.UUID
	Description string
	IsInternal  bool
	CreatedAt   time.Time
}

func newTransaction(kind valueobject.TransactionKind, userID uuid.UUID, role valueobject.WalletRole, amount float64, gigID *uuid.UUID, description string) (*Transaction, error) {
	if _, err := valueobject.NewPrice(amount); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма операции должна быть положительной")
	}
	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Role:        role,
		Kind:        kind,
		Amount:      amount,
		GigID:       gigID,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}

func NewCredit(userID uuid.UUID, role valueobject.WalletRole, amount float64, gigID *uuid.UUID, description string) (*Transaction, error) {
	return newTransaction(valueobject.TransactionCredit, userID, role, amount, gigID, description)
}

func NewDebit(userID uuid.UUID, role valueobject.WalletRole, amount float64, gigID *uuid.UUID, description string) (*Transaction, error) {
	return newTransaction(valueobject.TransactionDebit, userID, role, amount, gigID, description)
}

// SignedAmount возвращает сумму со знаком для расчёта баланса.
func (t *Transaction) SignedAmount() float64 {
	if t.Kind == valueobject.TransactionDebit {
		return -t.Amount
	}
	return t.Amount
}
