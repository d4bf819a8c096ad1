package completion

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/event"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

type SubmitCompletionInput struct {
	GigID       uuid.UUID
	ProviderID  uuid.UUID
	Description string
	Attachments []string
}

type SubmitCompletionUseCase struct {
	completionRepo repository.CompletionRepository
	gigRepo        repository.GigRepository
	proposalRepo   repository.ProposalRepository
	notifier       event.Notifier
}

func NewSubmitCompletionUseCase(
	completionRepo repository.CompletionRepository,
	gigRepo repository.GigRepository,
	proposalRepo repository.ProposalRepository,
	notifier event.Notifier,
) *SubmitCompletionUseCase {
	return &SubmitCompletionUseCase{
		completionRepo: completionRepo,
		gigRepo:        gigRepo,
		proposalRepo:   proposalRepo,
		notifier:       notifier,
	}
}

// Execute регистрирует заявку исполнителя о выполненной работе.
// Вторая заявка при уже ожидающей проверки отклоняется уникальным индексом.
func (uc *SubmitCompletionUseCase) Execute(ctx context.Context, input SubmitCompletionInput) (*entity.JobCompletion, error) {
	completion, err := entity.NewJobCompletion(input.GigID, input.ProviderID, input.Description, input.Attachments)
	if err != nil {
		return nil, err
	}

	gig, err := uc.gigRepo.FindByID(ctx, input.GigID)
	if err != nil {
		return nil, err
	}
	if !gig.IsInProgress() {
		return nil, apperror.ErrGigNotInProgress
	}

	accepted, err := uc.proposalRepo.FindAcceptedByGigID(ctx, gig.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось найти принятое предложение")
	}
	if accepted == nil || accepted.ResponderID != input.ProviderID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "сдать работу может только выбранный исполнитель")
	}

	if err := uc.completionRepo.Create(ctx, completion); err != nil {
		if apperror.IsConflict(err) {
			return nil, apperror.ErrCompletionAlreadyPending
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить запрос на завершение")
	}

	uc.notifier.Trigger(ctx, event.CompletionSubmitted, event.Payload{
		UserID:   gig.AuthorID,
		GigID:    gig.ID,
		GigTitle: gig.Title,
		Extra: map[string]any{
			"completion_id": completion.ID,
			"provider_id":   completion.ProviderID,
		},
	})

	return completion, nil
}
