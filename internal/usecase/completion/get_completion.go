package completion

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

type GetCompletionUseCase struct {
	completionRepo repository.CompletionRepository
	gigRepo        repository.GigRepository
}

func NewGetCompletionUseCase(completionRepo repository.CompletionRepository, gigRepo repository.GigRepository) *GetCompletionUseCase {
	return &GetCompletionUseCase{completionRepo: completionRepo, gigRepo: gigRepo}
}

func (uc *GetCompletionUseCase) Execute(ctx context.Context, completionID, userID uuid.UUID) (*entity.JobCompletion, error) {
	completion, err := uc.completionRepo.FindByID(ctx, completionID)
	if err != nil {
		return nil, err
	}
	if completion.ProviderID == userID {
		return completion, nil
	}

	gig, err := uc.gigRepo.FindByID(ctx, completion.GigID)
	if err != nil {
		return nil, err
	}
	if !gig.IsOwnedBy(userID) {
		return nil, apperror.ErrForbidden
	}
	return completion, nil
}

type ListGigCompletionsUseCase struct {
	completionRepo repository.CompletionRepository
	gigRepo        repository.GigRepository
}

func NewListGigCompletionsUseCase(completionRepo repository.CompletionRepository, gigRepo repository.GigRepository) *ListGigCompletionsUseCase {
	return &ListGigCompletionsUseCase{completionRepo: completionRepo, gigRepo: gigRepo}
}

// Execute возвращает владельцу все заявки по заказу, исполнителю - только его собственные.
func (uc *ListGigCompletionsUseCase) Execute(ctx context.Context, gigID, userID uuid.UUID) ([]*entity.JobCompletion, error) {
	gig, err := uc.gigRepo.FindByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	completions, err := uc.completionRepo.FindByGigID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig.IsOwnedBy(userID) {
		return completions, nil
	}

	own := make([]*entity.JobCompletion, 0, len(completions))
	for _, c := range completions {
		if c.ProviderID == userID {
			own = append(own, c)
		}
	}
	return own, nil
}
