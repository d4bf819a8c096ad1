package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
)

type ProposalRepository interface {
	Create(ctx context.Context, proposal *entity.Proposal) error
	// Update сохраняет решение, только пока предложение в статусе pending.
	// Иначе возвращает apperror.ErrProposalNotPending.
	Update(ctx context.Context, proposal *entity.Proposal) error
	// Accept одной транзакцией переводит заказ approved -> in_progress и предложение
	// pending -> accepted. Если заказ уже не approved, возвращает
	// apperror.ErrGigNotOpenForProposals, если предложение не pending - ErrProposalNotPending.
	Accept(ctx context.Context, proposal *entity.Proposal, gig *entity.Gig) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error)
	FindByGigID(ctx context.Context, gigID uuid.UUID) ([]*entity.Proposal, error)
	FindByResponderID(ctx context.Context, responderID uuid.UUID) ([]*entity.Proposal, error)
	// FindAcceptedByGigID возвращает nil, nil если принятого предложения нет.
	FindAcceptedByGigID(ctx context.Context, gigID uuid.UUID) (*entity.Proposal, error)
}
