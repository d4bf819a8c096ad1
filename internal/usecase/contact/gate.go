package contact

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/quota"
)

type Reason string

const (
	ReasonOwnGig              Reason = "own_gig"
	ReasonAlreadyViewed       Reason = "already_viewed"
	ReasonHasCredits          Reason = "has_credits"
	ReasonInsufficientCredits Reason = "insufficient_credits"
)

type Decision struct {
	CanView   bool
	Reason    Reason
	Remaining int
}

// QuotaLedger - часть учёта квот, нужная для раскрытия контактов.
type QuotaLedger interface {
	CanPerformAction(ctx context.Context, userID uuid.UUID, action valueobject.ActionType) (*quota.Status, error)
	ConsumeQuota(ctx context.Context, userID uuid.UUID, action valueobject.ActionType, targetID *uuid.UUID, targetType string) (*entity.UsageRecord, error)
}

const targetTypeGig = "gig"

// Gate решает, может ли пользователь увидеть контакты владельца заказа.
// Первое раскрытие по паре (пользователь, заказ) расходует единицу contact_view,
// повторные - бесплатны.
type Gate struct {
	gigs     repository.GigRepository
	profiles repository.ProfileRepository
	unlocks  repository.ContactUnlockRepository
	ledger   QuotaLedger
}

func NewGate(gigs repository.GigRepository, profiles repository.ProfileRepository, unlocks repository.ContactUnlockRepository, ledger QuotaLedger) *Gate {
	return &Gate{
		gigs:     gigs,
		profiles: profiles,
		unlocks:  unlocks,
		ledger:   ledger,
	}
}

func (g *Gate) CanViewContact(ctx context.Context, userID, gigID uuid.UUID) (*Decision, error) {
	gig, err := g.gigs.FindByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig.IsOwnedBy(userID) {
		return &Decision{CanView: true, Reason: ReasonOwnGig}, nil
	}

	unlocked, err := g.unlocks.Exists(ctx, userID, gigID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить раскрытие контакта")
	}
	if unlocked {
		return &Decision{CanView: true, Reason: ReasonAlreadyViewed}, nil
	}

	st, err := g.ledger.CanPerformAction(ctx, userID, valueobject.ActionContactView)
	if err != nil {
		return nil, err
	}
	if !st.Allowed {
		return &Decision{CanView: false, Reason: ReasonInsufficientCredits}, nil
	}
	return &Decision{CanView: true, Reason: ReasonHasCredits, Remaining: st.Remaining}, nil
}

// ViewContact возвращает контакты владельца заказа.
// При исчерпанной квоте запись о раскрытии не создаётся.
func (g *Gate) ViewContact(ctx context.Context, userID, gigID uuid.UUID) (*entity.ContactInfo, error) {
	gig, err := g.gigs.FindByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	owner, err := g.profiles.FindByUserID(ctx, gig.AuthorID)
	if err != nil {
		return nil, err
	}

	if gig.IsOwnedBy(userID) {
		return owner.ContactInfo(), nil
	}

	unlocked, err := g.unlocks.Exists(ctx, userID, gigID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить раскрытие контакта")
	}
	if unlocked {
		return owner.ContactInfo(), nil
	}

	if _, err := g.ledger.ConsumeQuota(ctx, userID, valueobject.ActionContactView, &gig.ID, targetTypeGig); err != nil {
		return nil, err
	}

	if err := g.unlocks.Create(ctx, entity.NewContactUnlock(userID, gigID)); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить раскрытие контакта")
	}

	return owner.ContactInfo(), nil
}

// UnlockForProposal открывает контакты как побочный эффект отклика.
// Квота contact_view не расходуется: отклик уже оплачен единицей proposal.
func (g *Gate) UnlockForProposal(ctx context.Context, userID uuid.UUID, gig *entity.Gig) error {
	if gig.IsOwnedBy(userID) {
		return nil
	}
	if err := g.unlocks.Create(ctx, entity.NewContactUnlock(userID, gig.ID)); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить раскрытие контакта")
	}
	return nil
}
