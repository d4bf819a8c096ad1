package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
)

type PlanRepository interface {
	// FindLimit ищет точное совпадение (тариф, тип пользователя), без запасного варианта.
	FindLimit(ctx context.Context, planTier string, userType valueobject.UserType) (*entity.PlanLimit, error)
	Upsert(ctx context.Context, limit *entity.PlanLimit) error
	List(ctx context.Context) ([]*entity.PlanLimit, error)
}

type UsageRepository interface {
	Create(ctx context.Context, record *entity.UsageRecord) error
	// CountSince суммирует credits_used с момента since (включительно).
	CountSince(ctx context.Context, userID uuid.UUID, action valueobject.ActionType, since time.Time) (int, error)
}

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
}

type ContactUnlockRepository interface {
	Exists(ctx context.Context, userID, gigID uuid.UUID) (bool, error)
	// Create идемпотентен: повторная запись для той же пары игнорируется.
	Create(ctx context.Context, unlock *entity.ContactUnlock) error
}
