package gig

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

type CreateGigInput struct {
	AuthorID    uuid.UUID
	Title       string
	Description string
	Price       float64
}

type CreateGigUseCase struct {
	gigRepo repository.GigRepository
}

func NewCreateGigUseCase(gigRepo repository.GigRepository) *CreateGigUseCase {
	return &CreateGigUseCase{gigRepo: gigRepo}
}

// Execute создаёт заказ в статусе draft. Отклики принимаются после модерации.
func (uc *CreateGigUseCase) Execute(ctx context.Context, input CreateGigInput) (*entity.Gig, error) {
	gig, err := entity.NewGig(input.AuthorID, input.Title, input.Description, input.Price)
	if err != nil {
		return nil, err
	}

	if err := uc.gigRepo.Create(ctx, gig); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать заказ")
	}

	return gig, nil
}
