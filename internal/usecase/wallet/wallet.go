package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type Balance struct {
	UserID  uuid.UUID
	Role    valueobject.WalletRole
	Balance valueobject.Money
}

type History struct {
	Items []*entity.Transaction
	Total int
}

type Service struct {
	repo repository.TransactionRepository
}

func NewService(repo repository.TransactionRepository) *Service {
	return &Service{repo: repo}
}

// Balance считает сумму кредитов минус сумму дебетов по всем операциям роли,
// включая внутренние.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID, role valueobject.WalletRole) (*Balance, error) {
	txs, err := s.repo.ListByUserRole(ctx, userID, role)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить операции кошелька")
	}

	total := valueobject.Zero()
	for _, tx := range txs {
		total = total.Add(tx.SignedAmount())
	}
	return &Balance{UserID: userID, Role: role, Balance: total}, nil
}

// History возвращает операции без внутренних записей, от новых к старым.
func (s *Service) History(ctx context.Context, userID uuid.UUID, role valueobject.WalletRole, limit, offset int) (*History, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	txs, err := s.repo.ListByUserRole(ctx, userID, role)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить операции кошелька")
	}

	visible := make([]*entity.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.IsInternal {
			visible = append(visible, tx)
		}
	}

	total := len(visible)
	if offset >= total {
		return &History{Items: []*entity.Transaction{}, Total: total}, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return &History{Items: visible[offset:end], Total: total}, nil
}

// ReleasePayment зачисляет исполнителю цену заказа.
func (s *Service) ReleasePayment(ctx context.Context, gig *entity.Gig, providerID uuid.UUID) (*entity.Transaction, error) {
	gigID := gig.ID
	tx, err := entity.NewCredit(providerID, valueobject.WalletRoleProvider, gig.Price, &gigID, fmt.Sprintf("Оплата по заказу «%s»", gig.Title))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось зачислить оплату")
	}
	return tx, nil
}

// RecordCardPayment отражает оплату картой как пару внутренних операций:
// пополнение и списание на ту же сумму. Баланс не меняется, история остаётся чистой.
func (s *Service) RecordCardPayment(ctx context.Context, clientID uuid.UUID, gig *entity.Gig) ([]*entity.Transaction, error) {
	gigID := gig.ID
	credit, err := entity.NewCredit(clientID, valueobject.WalletRoleClient, gig.Price, &gigID, "Оплата картой")
	if err != nil {
		return nil, err
	}
	debit, err := entity.NewDebit(clientID, valueobject.WalletRoleClient, gig.Price, &gigID, fmt.Sprintf("Оплата заказа «%s»", gig.Title))
	if err != nil {
		return nil, err
	}
	credit.IsInternal = true
	debit.IsInternal = true

	txs := []*entity.Transaction{credit, debit}
	if err := s.repo.CreateBatch(ctx, txs); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось записать оплату картой")
	}
	return txs, nil
}
