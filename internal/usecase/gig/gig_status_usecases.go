package gig

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// ApproveGigUseCase - модерация заказа. Права администратора проверяет middleware.
type ApproveGigUseCase struct {
	gigRepo repository.GigRepository
}

func NewApproveGigUseCase(gigRepo repository.GigRepository) *ApproveGigUseCase {
	return &ApproveGigUseCase{gigRepo: gigRepo}
}

func (uc *ApproveGigUseCase) Execute(ctx context.Context, gigID uuid.UUID) (*entity.Gig, error) {
	gig, err := uc.gigRepo.FindByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	if err := gig.Approve(); err != nil {
		return nil, err
	}

	if err := uc.gigRepo.Update(ctx, gig); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус заказа")
	}

	return gig, nil
}

type CancelGigUseCase struct {
	gigRepo repository.GigRepository
}

func NewCancelGigUseCase(gigRepo repository.GigRepository) *CancelGigUseCase {
	return &CancelGigUseCase{gigRepo: gigRepo}
}

func (uc *CancelGigUseCase) Execute(ctx context.Context, gigID, userID uuid.UUID) (*entity.Gig, error) {
	gig, err := uc.gigRepo.FindByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	if !gig.IsOwnedBy(userID) {
		return nil, apperror.ErrForbidden
	}

	if err := gig.Cancel(); err != nil {
		return nil, err
	}

	if err := uc.gigRepo.Update(ctx, gig); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус заказа")
	}

	return gig, nil
}

// CardPaymentRecorder отражает оплату заказа картой в кошельке клиента.
type CardPaymentRecorder interface {
	RecordCardPayment(ctx context.Context, clientID uuid.UUID, gig *entity.Gig) ([]*entity.Transaction, error)
}

// FundGigUseCase фиксирует оплату заказа клиентом. Само списание с карты выполняет платёжный провайдер.
type FundGigUseCase struct {
	gigRepo  repository.GigRepository
	payments CardPaymentRecorder
}

func NewFundGigUseCase(gigRepo repository.GigRepository, payments CardPaymentRecorder) *FundGigUseCase {
	return &FundGigUseCase{gigRepo: gigRepo, payments: payments}
}

func (uc *FundGigUseCase) Execute(ctx context.Context, gigID, clientID uuid.UUID) ([]*entity.Transaction, error) {
	gig, err := uc.gigRepo.FindByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	if !gig.IsOwnedBy(clientID) {
		return nil, apperror.ErrForbidden
	}
	if gig.Status.IsTerminal() {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "заказ уже закрыт")
	}

	return uc.payments.RecordCardPayment(ctx, clientID, gig)
}
