package completion

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/event"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/errreport"
	"github.com/sirupsen/logrus"
)

// PaymentReleaser зачисляет оплату исполнителю после приёмки работы.
type PaymentReleaser interface {
	ReleasePayment(ctx context.Context, gig *entity.Gig, providerID uuid.UUID) (*entity.Transaction, error)
}

// loadForReview загружает заявку с заказом и проверяет, что её рассматривает владелец заказа.
func loadForReview(ctx context.Context, completionRepo repository.CompletionRepository, gigRepo repository.GigRepository, completionID, clientID uuid.UUID) (*entity.JobCompletion, *entity.Gig, error) {
	completion, err := completionRepo.FindByID(ctx, completionID)
	if err != nil {
		return nil, nil, err
	}

	gig, err := gigRepo.FindByID(ctx, completion.GigID)
	if err != nil {
		return nil, nil, err
	}

	if !gig.IsOwnedBy(clientID) {
		return nil, nil, apperror.ErrForbidden
	}
	if !completion.IsPending() {
		return nil, nil, apperror.ErrCompletionNotPending
	}
	return completion, gig, nil
}

type ApproveCompletionUseCase struct {
	completionRepo repository.CompletionRepository
	gigRepo        repository.GigRepository
	payments       PaymentReleaser
	notifier       event.Notifier
}

func NewApproveCompletionUseCase(
	completionRepo repository.CompletionRepository,
	gigRepo repository.GigRepository,
	payments PaymentReleaser,
	notifier event.Notifier,
) *ApproveCompletionUseCase {
	return &ApproveCompletionUseCase{
		completionRepo: completionRepo,
		gigRepo:        gigRepo,
		payments:       payments,
		notifier:       notifier,
	}
}

// Execute принимает работу: заявка -> approved, заказ -> completed, оплата -> исполнителю.
// Перевод заявки из pending условный, поэтому оплату зачисляет только один из
// параллельных запросов. Остальные шаги не объединены транзакцией: сбой после
// сохранения заявки не откатывает её, а отправляется в лог и Sentry.
func (uc *ApproveCompletionUseCase) Execute(ctx context.Context, completionID, clientID uuid.UUID) (*entity.JobCompletion, error) {
	completion, gig, err := loadForReview(ctx, uc.completionRepo, uc.gigRepo, completionID, clientID)
	if err != nil {
		return nil, err
	}
	if !gig.IsInProgress() {
		return nil, apperror.ErrGigNotInProgress
	}

	if err := completion.Approve(); err != nil {
		return nil, err
	}
	if err := uc.completionRepo.Update(ctx, completion); err != nil {
		return nil, err
	}

	fields := logrus.Fields{
		"completion_id": completion.ID,
		"gig_id":        gig.ID,
	}

	if err := gig.Complete(); err != nil {
		errreport.Report(ctx, err, "заявка принята, но заказ нельзя завершить", fields)
	} else if err := uc.gigRepo.Update(ctx, gig); err != nil {
		errreport.Report(ctx, err, "заявка принята, но статус заказа не обновлён", fields)
	}

	tx, err := uc.payments.ReleasePayment(ctx, gig, completion.ProviderID)
	if err != nil {
		errreport.Report(ctx, err, "заявка принята, но оплата не зачислена", fields)
	}

	uc.notifier.Trigger(ctx, event.CompletionApproved, event.Payload{
		UserID:   completion.ProviderID,
		GigID:    gig.ID,
		GigTitle: gig.Title,
		Extra:    map[string]any{"completion_id": completion.ID},
	})
	if tx != nil {
		uc.notifier.Trigger(ctx, event.PaymentReleased, event.Payload{
			UserID:   completion.ProviderID,
			GigID:    gig.ID,
			GigTitle: gig.Title,
			Extra: map[string]any{
				"transaction_id": tx.ID,
				"amount":         tx.Amount,
			},
		})
	}

	return completion, nil
}

type RejectCompletionUseCase struct {
	completionRepo repository.CompletionRepository
	gigRepo        repository.GigRepository
	notifier       event.Notifier
}

func NewRejectCompletionUseCase(completionRepo repository.CompletionRepository, gigRepo repository.GigRepository, notifier event.Notifier) *RejectCompletionUseCase {
	return &RejectCompletionUseCase{
		completionRepo: completionRepo,
		gigRepo:        gigRepo,
		notifier:       notifier,
	}
}

// Execute возвращает работу на доработку. Заказ остаётся в работе.
func (uc *RejectCompletionUseCase) Execute(ctx context.Context, completionID, clientID uuid.UUID, reason string) (*entity.JobCompletion, error) {
	completion, gig, err := loadForReview(ctx, uc.completionRepo, uc.gigRepo, completionID, clientID)
	if err != nil {
		return nil, err
	}

	if err := completion.Reject(reason); err != nil {
		return nil, err
	}
	if err := uc.completionRepo.Update(ctx, completion); err != nil {
		return nil, err
	}

	uc.notifier.Trigger(ctx, event.CompletionRejected, event.Payload{
		UserID:   completion.ProviderID,
		GigID:    gig.ID,
		GigTitle: gig.Title,
		Extra: map[string]any{
			"completion_id": completion.ID,
			"reason":        *completion.RejectionReason,
		},
	})

	return completion, nil
}
