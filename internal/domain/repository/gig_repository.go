package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
)

type GigFilter struct {
	Status   *valueobject.GigStatus
	AuthorID *uuid.UUID
	Limit    int
	Offset   int
}

type GigRepository interface {
	Create(ctx context.Context, gig *entity.Gig) error
	Update(ctx context.Context, gig *entity.Gig) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error)
	List(ctx context.Context, filter GigFilter) ([]*entity.Gig, int, error)
}
