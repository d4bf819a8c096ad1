package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

const insertTransactionQuery = `
	INSERT INTO transactions (id, user_id, role, kind, amount, gig_id, description, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type TransactionRepositoryAdapter struct {
	db *sqlx.DB
}

func NewTransactionRepositoryAdapter(db *sqlx.DB) *TransactionRepositoryAdapter {
	return &TransactionRepositoryAdapter{db: db}
}

type transactionMetadata struct {
	IsInternal bool `json:"is_internal"`
}

func transactionArgs(tx *entity.Transaction) ([]interface{}, error) {
	meta, err := json.Marshal(transactionMetadata{IsInternal: tx.IsInternal})
	if err != nil {
		return nil, err
	}
	return []interface{}{
		tx.ID, tx.UserID, string(tx.Role), string(tx.Kind), tx.Amount,
		tx.GigID, tx.Description, meta, tx.CreatedAt,
	}, nil
}

func (r *TransactionRepositoryAdapter) Create(ctx context.Context, tx *entity.Transaction) error {
	args, err := transactionArgs(tx)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось подготовить операцию")
	}
	if _, err := r.db.ExecContext(ctx, insertTransactionQuery, args...); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось записать операцию")
	}
	return nil
}

func (r *TransactionRepositoryAdapter) CreateBatch(ctx context.Context, txs []*entity.Transaction) error {
	err := withTransaction(ctx, r.db, func(dbTx *sqlx.Tx) error {
		for _, tx := range txs {
			args, err := transactionArgs(tx)
			if err != nil {
				return err
			}
			if _, err := dbTx.ExecContext(ctx, insertTransactionQuery, args...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось записать операции")
	}
	return nil
}

func (r *TransactionRepositoryAdapter) ListByUserRole(ctx context.Context, userID uuid.UUID, role valueobject.WalletRole) ([]*entity.Transaction, error) {
	var rows []transactionRow
	query := `
		SELECT id, user_id, role, kind, amount, gig_id, description,
			COALESCE((metadata->>'is_internal')::boolean, false) AS is_internal, created_at
		FROM transactions WHERE user_id = $1 AND role = $2
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &rows, query, userID, string(role)); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить операции")
	}
	result := make([]*entity.Transaction, len(rows))
	for i, row := range rows {
		result[i] = &entity.Transaction{
			ID:          row.ID,
			UserID:      row.UserID,
			Role:        valueobject.WalletRole(row.Role),
			Kind:        valueobject.TransactionKind(row.Kind),
			Amount:      row.Amount,
			GigID:       row.GigID,
			Description: row.Description,
			IsInternal:  row.IsInternal,
			CreatedAt:   row.CreatedAt,
		}
	}
	return result, nil
}

type transactionRow struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	Role        string     `db:"role"`
	Kind        string     `db:"kind"`
	Amount      float64    `db:"amount"`
	GigID       *uuid.UUID `db:"gig_id"`
	Description string     `db:"description"`
	IsInternal  bool       `db:"is_internal"`
	CreatedAt   time.Time  `db:"created_at"`
}
