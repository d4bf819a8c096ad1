package gig

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
)

type GetGigUseCase struct {
	gigRepo repository.GigRepository
}

func NewGetGigUseCase(gigRepo repository.GigRepository) *GetGigUseCase {
	return &GetGigUseCase{gigRepo: gigRepo}
}

func (uc *GetGigUseCase) Execute(ctx context.Context, gigID uuid.UUID) (*entity.Gig, error) {
	return uc.gigRepo.FindByID(ctx, gigID)
}

type ListGigsUseCase struct {
	gigRepo repository.GigRepository
}

func NewListGigsUseCase(gigRepo repository.GigRepository) *ListGigsUseCase {
	return &ListGigsUseCase{gigRepo: gigRepo}
}

func (uc *ListGigsUseCase) Execute(ctx context.Context, filter repository.GigFilter) ([]*entity.Gig, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.gigRepo.List(ctx, filter)
}
