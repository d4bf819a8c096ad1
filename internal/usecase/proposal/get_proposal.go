package proposal

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

type GetProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	gigRepo      repository.GigRepository
}

func NewGetProposalUseCase(proposalRepo repository.ProposalRepository, gigRepo repository.GigRepository) *GetProposalUseCase {
	return &GetProposalUseCase{proposalRepo: proposalRepo, gigRepo: gigRepo}
}

// Execute возвращает предложение только участникам переговоров.
func (uc *GetProposalUseCase) Execute(ctx context.Context, proposalID, userID uuid.UUID) (*entity.Proposal, error) {
	proposal, err := uc.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	gig, err := uc.gigRepo.FindByID(ctx, proposal.GigID)
	if err != nil {
		return nil, err
	}
	if !proposal.IsParticipant(gig, userID) {
		return nil, apperror.ErrForbidden
	}
	return proposal, nil
}

type ListGigProposalsUseCase struct {
	proposalRepo repository.ProposalRepository
	gigRepo      repository.GigRepository
}

func NewListGigProposalsUseCase(proposalRepo repository.ProposalRepository, gigRepo repository.GigRepository) *ListGigProposalsUseCase {
	return &ListGigProposalsUseCase{proposalRepo: proposalRepo, gigRepo: gigRepo}
}

func (uc *ListGigProposalsUseCase) Execute(ctx context.Context, gigID, userID uuid.UUID) ([]*entity.Proposal, error) {
	gig, err := uc.gigRepo.FindByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if !gig.IsOwnedBy(userID) {
		return nil, apperror.ErrForbidden
	}
	return uc.proposalRepo.FindByGigID(ctx, gigID)
}

type ListMyProposalsUseCase struct {
	proposalRepo repository.ProposalRepository
}

func NewListMyProposalsUseCase(proposalRepo repository.ProposalRepository) *ListMyProposalsUseCase {
	return &ListMyProposalsUseCase{proposalRepo: proposalRepo}
}

func (uc *ListMyProposalsUseCase) Execute(ctx context.Context, responderID uuid.UUID) ([]*entity.Proposal, error) {
	return uc.proposalRepo.FindByResponderID(ctx, responderID)
}
