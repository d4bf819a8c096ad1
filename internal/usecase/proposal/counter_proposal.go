package proposal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/event"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

type CreateCounterProposalInput struct {
	ParentProposalID uuid.UUID
	AuthorID         uuid.UUID
	Title            string
	Description      string
	ProposedPrice    float64
	TimelineDays     int
	Deliverables     []string
	Terms            *string
	ExpiresAt        *time.Time
}

// CreateCounterProposalUseCase - встречное предложение в рамках существующих переговоров.
// Квота не расходуется, беседа не создаётся.
type CreateCounterProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	gigRepo      repository.GigRepository
	convRepo     repository.ConversationRepository
	notifier     event.Notifier
}

func NewCreateCounterProposalUseCase(
	proposalRepo repository.ProposalRepository,
	gigRepo repository.GigRepository,
	convRepo repository.ConversationRepository,
	notifier event.Notifier,
) *CreateCounterProposalUseCase {
	return &CreateCounterProposalUseCase{
		proposalRepo: proposalRepo,
		gigRepo:      gigRepo,
		convRepo:     convRepo,
		notifier:     notifier,
	}
}

func (uc *CreateCounterProposalUseCase) Execute(ctx context.Context, input CreateCounterProposalInput) (*entity.Proposal, error) {
	draft := entity.ProposalDraft{
		Title:         input.Title,
		Description:   input.Description,
		ProposedPrice: input.ProposedPrice,
		TimelineDays:  input.TimelineDays,
		Deliverables:  input.Deliverables,
		Terms:         input.Terms,
		ExpiresAt:     input.ExpiresAt,
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	parent, err := uc.proposalRepo.FindByID(ctx, input.ParentProposalID)
	if err != nil {
		return nil, err
	}

	gig, err := uc.gigRepo.FindByID(ctx, parent.GigID)
	if err != nil {
		return nil, err
	}

	if !parent.IsParticipant(gig, input.AuthorID) {
		return nil, apperror.ErrForbidden
	}
	if !gig.IsOpenForProposals() {
		return nil, apperror.ErrGigNotOpenForProposals
	}

	counter, err := entity.NewCounterProposal(parent, input.AuthorID, draft)
	if err != nil {
		return nil, err
	}

	if err := uc.proposalRepo.Create(ctx, counter); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать встречное предложение")
	}

	extra := map[string]any{
		"proposal_id":        counter.ID,
		"parent_proposal_id": parent.ID,
		"proposed_price":     counter.ProposedPrice,
	}
	conv, err := uc.convRepo.FindByParticipants(ctx, gig.ID, gig.AuthorID, counter.ResponderID)
	if err == nil && conv != nil {
		extra["conversation_id"] = conv.ID
	}

	uc.notifier.Trigger(ctx, event.CounterProposalReceived, event.Payload{
		UserID:   counter.Recipient(gig),
		GigID:    gig.ID,
		GigTitle: gig.Title,
		Extra:    extra,
	})

	return counter, nil
}
