package proposal

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/event"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// loadForDecision загружает предложение с заказом и проверяет,
// что решение принимает получатель предложения.
func loadForDecision(ctx context.Context, proposalRepo repository.ProposalRepository, gigRepo repository.GigRepository, proposalID, userID uuid.UUID) (*entity.Proposal, *entity.Gig, error) {
	proposal, err := proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, nil, err
	}

	gig, err := gigRepo.FindByID(ctx, proposal.GigID)
	if err != nil {
		return nil, nil, err
	}

	if proposal.Recipient(gig) != userID {
		return nil, nil, apperror.ErrForbidden
	}
	return proposal, gig, nil
}

type AcceptProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	gigRepo      repository.GigRepository
	notifier     event.Notifier
}

func NewAcceptProposalUseCase(proposalRepo repository.ProposalRepository, gigRepo repository.GigRepository, notifier event.Notifier) *AcceptProposalUseCase {
	return &AcceptProposalUseCase{
		proposalRepo: proposalRepo,
		gigRepo:      gigRepo,
		notifier:     notifier,
	}
}

// Execute принимает предложение и переводит заказ в работу.
// Остальные предложения по заказу остаются в статусе pending. Заказ и предложение
// обновляются атомарно: из параллельных принятий по одному заказу проходит одно.
func (uc *AcceptProposalUseCase) Execute(ctx context.Context, proposalID, userID uuid.UUID) (*entity.Proposal, error) {
	proposal, gig, err := loadForDecision(ctx, uc.proposalRepo, uc.gigRepo, proposalID, userID)
	if err != nil {
		return nil, err
	}

	if err := proposal.Accept(); err != nil {
		return nil, err
	}

	if err := gig.StartWork(); err != nil {
		return nil, err
	}

	if err := uc.proposalRepo.Accept(ctx, proposal, gig); err != nil {
		return nil, err
	}

	uc.notifier.Trigger(ctx, event.ResponseAccepted, event.Payload{
		UserID:   proposal.CreatedBy,
		GigID:    gig.ID,
		GigTitle: gig.Title,
		Extra:    map[string]any{"proposal_id": proposal.ID},
	})

	return proposal, nil
}

type RejectProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	gigRepo      repository.GigRepository
	notifier     event.Notifier
}

func NewRejectProposalUseCase(proposalRepo repository.ProposalRepository, gigRepo repository.GigRepository, notifier event.Notifier) *RejectProposalUseCase {
	return &RejectProposalUseCase{
		proposalRepo: proposalRepo,
		gigRepo:      gigRepo,
		notifier:     notifier,
	}
}

func (uc *RejectProposalUseCase) Execute(ctx context.Context, proposalID, userID uuid.UUID, reason *string) (*entity.Proposal, error) {
	proposal, gig, err := loadForDecision(ctx, uc.proposalRepo, uc.gigRepo, proposalID, userID)
	if err != nil {
		return nil, err
	}

	if err := proposal.Reject(reason); err != nil {
		return nil, err
	}

	if err := uc.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, err
	}

	extra := map[string]any{"proposal_id": proposal.ID}
	if proposal.RejectionReason != nil {
		extra["reason"] = *proposal.RejectionReason
	}
	uc.notifier.Trigger(ctx, event.ResponseRejected, event.Payload{
		UserID:   proposal.CreatedBy,
		GigID:    gig.ID,
		GigTitle: gig.Title,
		Extra:    extra,
	})

	return proposal, nil
}
