package proposal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/event"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/logger"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/quota"
	"github.com/sirupsen/logrus"
)

const targetTypeGig = "gig"

// QuotaLedger - часть учёта квот, нужная для откликов.
type QuotaLedger interface {
	CanPerformAction(ctx context.Context, userID uuid.UUID, action valueobject.ActionType) (*quota.Status, error)
	ConsumeQuota(ctx context.Context, userID uuid.UUID, action valueobject.ActionType, targetID *uuid.UUID, targetType string) (*entity.UsageRecord, error)
}

// ContactUnlocker открывает контакты владельца заказа откликнувшемуся исполнителю.
type ContactUnlocker interface {
	UnlockForProposal(ctx context.Context, userID uuid.UUID, gig *entity.Gig) error
}

// ConversationOpener возвращает беседу по заказу, создавая её при необходимости.
type ConversationOpener interface {
	Execute(ctx context.Context, gig *entity.Gig, providerID uuid.UUID) (*entity.Conversation, error)
}

type CreateProposalInput struct {
	GigID         uuid.UUID
	ResponderID   uuid.UUID
	Title         string
	Description   string
	ProposedPrice float64
	TimelineDays  int
	Deliverables  []string
	Terms         *string
	ExpiresAt     *time.Time
}

func (in CreateProposalInput) draft() entity.ProposalDraft {
	return entity.ProposalDraft{
		Title:         in.Title,
		Description:   in.Description,
		ProposedPrice: in.ProposedPrice,
		TimelineDays:  in.TimelineDays,
		Deliverables:  in.Deliverables,
		Terms:         in.Terms,
		ExpiresAt:     in.ExpiresAt,
	}
}

type CreateProposalResult struct {
	Proposal     *entity.Proposal
	Conversation *entity.Conversation
}

type CreateProposalUseCase struct {
	proposalRepo  repository.ProposalRepository
	gigRepo       repository.GigRepository
	ledger        QuotaLedger
	contacts      ContactUnlocker
	conversations ConversationOpener
	notifier      event.Notifier
}

func NewCreateProposalUseCase(
	proposalRepo repository.ProposalRepository,
	gigRepo repository.GigRepository,
	ledger QuotaLedger,
	contacts ContactUnlocker,
	conversations ConversationOpener,
	notifier event.Notifier,
) *CreateProposalUseCase {
	return &CreateProposalUseCase{
		proposalRepo:  proposalRepo,
		gigRepo:       gigRepo,
		ledger:        ledger,
		contacts:      contacts,
		conversations: conversations,
		notifier:      notifier,
	}
}

// Execute подаёт отклик на заказ.
// Единица квоты proposal, списанная до вставки, при последующих ошибках не возвращается.
func (uc *CreateProposalUseCase) Execute(ctx context.Context, input CreateProposalInput) (*CreateProposalResult, error) {
	draft := input.draft()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	gig, err := uc.gigRepo.FindByID(ctx, input.GigID)
	if err != nil {
		return nil, err
	}

	if gig.IsOwnedBy(input.ResponderID) {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "нельзя откликнуться на собственный заказ")
	}

	if !gig.IsOpenForProposals() {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "заказ не принимает отклики")
	}

	st, err := uc.ledger.CanPerformAction(ctx, input.ResponderID, valueobject.ActionProposal)
	if err != nil {
		return nil, err
	}
	if !st.Allowed {
		return nil, apperror.ErrProposalLimitReached
	}

	proposal, err := entity.NewProposal(gig.ID, input.ResponderID, draft)
	if err != nil {
		return nil, err
	}

	if err := uc.contacts.UnlockForProposal(ctx, input.ResponderID, gig); err != nil {
		return nil, err
	}

	if _, err := uc.ledger.ConsumeQuota(ctx, input.ResponderID, valueobject.ActionProposal, &gig.ID, targetTypeGig); err != nil {
		return nil, err
	}

	if err := uc.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать предложение")
	}

	conv, err := uc.conversations.Execute(ctx, gig, input.ResponderID)
	if err != nil {
		// отклик уже сохранён, беседу можно открыть позже
		logger.Log.WithFields(logrus.Fields{
			"proposal_id": proposal.ID,
			"gig_id":      gig.ID,
		}).WithError(err).Error("не удалось открыть беседу по отклику")
	}

	uc.notifier.Trigger(ctx, event.ResponseReceived, event.Payload{
		UserID:   gig.AuthorID,
		GigID:    gig.ID,
		GigTitle: gig.Title,
		Extra: map[string]any{
			"proposal_id":    proposal.ID,
			"responder_id":   proposal.ResponderID,
			"proposed_price": proposal.ProposedPrice,
		},
	})

	return &CreateProposalResult{Proposal: proposal, Conversation: conv}, nil
}
