package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

type ConversationRepositoryAdapter struct {
	db *sqlx.DB
}

func NewConversationRepositoryAdapter(db *sqlx.DB) *ConversationRepositoryAdapter {
	return &ConversationRepositoryAdapter{db: db}
}

// Upsert опирается на уникальный индекс (gig_id, client_id, provider_id).
// При конфликте обновляется updated_at, и RETURNING отдаёт существующую строку.
func (r *ConversationRepositoryAdapter) Upsert(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, error) {
	var c conversationRow
	query := `
		INSERT INTO conversations (id, gig_id, client_id, provider_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (gig_id, client_id, provider_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, gig_id, client_id, provider_id, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &c, query, conv.ID, conv.GigID, conv.ClientID, conv.ProviderID, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать беседу")
	}
	return c.toEntity(), nil
}

func (r *ConversationRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	var c conversationRow
	query := `SELECT id, gig_id, client_id, provider_id, created_at, updated_at FROM conversations WHERE id = $1`
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить беседу")
	}
	return c.toEntity(), nil
}

func (r *ConversationRepositoryAdapter) FindByParticipants(ctx context.Context, gigID, clientID, providerID uuid.UUID) (*entity.Conversation, error) {
	var c conversationRow
	query := `SELECT id, gig_id, client_id, provider_id, created_at, updated_at
		FROM conversations WHERE gig_id = $1 AND client_id = $2 AND provider_id = $3`
	if err := r.db.GetContext(ctx, &c, query, gigID, clientID, providerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить беседу")
	}
	return c.toEntity(), nil
}

func (r *ConversationRepositoryAdapter) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Conversation, error) {
	var rows []conversationRow
	query := `SELECT id, gig_id, client_id, provider_id, created_at, updated_at
		FROM conversations WHERE client_id = $1 OR provider_id = $1 ORDER BY updated_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить беседы")
	}
	result := make([]*entity.Conversation, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

type conversationRow struct {
	ID         uuid.UUID `db:"id"`
	GigID      uuid.UUID `db:"gig_id"`
	ClientID   uuid.UUID `db:"client_id"`
	ProviderID uuid.UUID `db:"provider_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (c *conversationRow) toEntity() *entity.Conversation {
	return &entity.Conversation{
		ID:         c.ID,
		GigID:      c.GigID,
		ClientID:   c.ClientID,
		ProviderID: c.ProviderID,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
