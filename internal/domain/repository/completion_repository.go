package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
)

type CompletionRepository interface {
	// Create возвращает ошибку с кодом CONFLICT, если по заказу уже есть заявка в статусе pending.
	Create(ctx context.Context, completion *entity.JobCompletion) error
	// Update сохраняет решение по заявке, только пока она в статусе pending.
	// Иначе возвращает apperror.ErrCompletionNotPending.
	Update(ctx context.Context, completion *entity.JobCompletion) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.JobCompletion, error)
	FindByGigID(ctx context.Context, gigID uuid.UUID) ([]*entity.JobCompletion, error)
}
