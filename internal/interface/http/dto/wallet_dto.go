package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/wallet"
)

type BalanceResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"`
	Balance  float64   `json:"balance"`
	Currency string    `json:"currency"`
}

type TransactionResponse struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	Amount      float64    `json:"amount"`
	GigID       *uuid.UUID `json:"gig_id"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToBalanceResponse(b *wallet.Balance) BalanceResponse {
	return BalanceResponse{
		UserID:   b.UserID,
		Role:     string(b.Role),
		Balance:  b.Balance.Amount,
		Currency: b.Balance.Currency,
	}
}

func ToTransactionResponses(items []*entity.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, 0, len(items))
	for _, t := range items {
		result = append(result, TransactionResponse{
			ID:          t.ID,
			Kind:        string(t.Kind),
			Amount:      t.Amount,
			GigID:       t.GigID,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		})
	}
	return result
}
