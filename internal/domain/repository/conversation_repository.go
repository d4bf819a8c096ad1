package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
)

type ConversationRepository interface {
	// Upsert создаёт беседу или возвращает существующую для той же тройки участников.
	Upsert(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Conversation, error)
	// FindByParticipants возвращает nil, nil если беседы нет.
	FindByParticipants(ctx context.Context, gigID, clientID, providerID uuid.UUID) (*entity.Conversation, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Conversation, error)
}
