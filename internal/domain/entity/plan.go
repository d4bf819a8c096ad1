package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
)

// UnlimitedQuota - значение лимита "без ограничений". NULL в лимитах не используется.
const UnlimitedQuota = math.MaxInt32

// PlanLimit - статическая конфигурация тарифа для пары (тариф, тип пользователя).
type PlanLimit struct {
	PlanTier         string
	UserType         valueobject.UserType
	ContactViews     int
	Proposals        int
	GigResponses     int
	ResetPeriod      valueobject.ResetPeriod
	SearchBoost      bool
	ProfileHighlight bool
	Price            float64
}

// CapFor возвращает лимит для действия.
func (l *PlanLimit) CapFor(action valueobject.ActionType) int {
	switch action {
	case valueobject.ActionContactView:
		return l.ContactViews
	case valueobject.ActionProposal:
		return l.Proposals
	case valueobject.ActionGigResponse:
		return l.GigResponses
	}
	return 0
}

func IsUnlimited(limit int) bool {
	return limit >= UnlimitedQuota
}

// UsageRecord - одна израсходованная единица квоты. Записи только добавляются.
type UsageRecord struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ActionType  valueobject.ActionType
	TargetID    *uuid.UUID
	TargetType  string
	CreditsUsed int
	PlanTier    string
	CreatedAt   time.Time
}

func NewUsageRecord(userID uuid.UUID, action valueobject.ActionType, targetID *uuid.UUID, targetType, planTier string, at time.Time) *UsageRecord {
	return &UsageRecord{
		ID:          uuid.New(),
		UserID:      userID,
		ActionType:  action,
		TargetID:    targetID,
		TargetType:  targetType,
		CreditsUsed: 1,
		PlanTier:    planTier,
		CreatedAt:   at,
	}
}
