package conversation

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// GetOrCreateConversationUseCase создаёт беседу по тройке (заказ, клиент, исполнитель)
// или возвращает существующую. Уникальность обеспечивает upsert в хранилище.
type GetOrCreateConversationUseCase struct {
	convRepo repository.ConversationRepository
}

func NewGetOrCreateConversationUseCase(convRepo repository.ConversationRepository) *GetOrCreateConversationUseCase {
	return &GetOrCreateConversationUseCase{convRepo: convRepo}
}

func (uc *GetOrCreateConversationUseCase) Execute(ctx context.Context, gig *entity.Gig, providerID uuid.UUID) (*entity.Conversation, error) {
	conv, err := entity.NewConversation(gig.ID, gig.AuthorID, providerID)
	if err != nil {
		return nil, err
	}

	stored, err := uc.convRepo.Upsert(ctx, conv)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать беседу")
	}
	return stored, nil
}

type GetConversationUseCase struct {
	convRepo repository.ConversationRepository
}

func NewGetConversationUseCase(convRepo repository.ConversationRepository) *GetConversationUseCase {
	return &GetConversationUseCase{convRepo: convRepo}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, conversationID, userID uuid.UUID) (*entity.Conversation, error) {
	conv, err := uc.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.IsParticipant(userID) {
		return nil, apperror.ErrForbidden
	}
	return conv, nil
}

type ListMyConversationsUseCase struct {
	convRepo repository.ConversationRepository
}

func NewListMyConversationsUseCase(convRepo repository.ConversationRepository) *ListMyConversationsUseCase {
	return &ListMyConversationsUseCase{convRepo: convRepo}
}

func (uc *ListMyConversationsUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]*entity.Conversation, error) {
	return uc.convRepo.FindByUserID(ctx, userID)
}
