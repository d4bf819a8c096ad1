package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	// CreateBatch записывает все операции в одной транзакции БД.
	CreateBatch(ctx context.Context, txs []*entity.Transaction) error
	// ListByUserRole возвращает полный журнал, включая внутренние записи, от новых к старым.
	ListByUserRole(ctx context.Context, userID uuid.UUID, role valueobject.WalletRole) ([]*entity.Transaction, error)
}
