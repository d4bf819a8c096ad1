package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTransactionRepo) CreateBatch(ctx context.Context, txs []*entity.Transaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}

func (m *mockTransactionRepo) ListByUserRole(ctx context.Context, userID uuid.UUID, role valueobject.WalletRole) ([]*entity.Transaction, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

func tx(kind valueobject.TransactionKind, amount float64, internal bool) *entity.Transaction {
	return &entity.Transaction{ID: uuid.New(), Kind: kind, Amount: amount, IsInternal: internal, Role: valueobject.WalletRoleProvider}
}

func TestService_Balance(t *testing.T) {
	repo := new(mockTransactionRepo)
	svc := NewService(repo)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("ListByUserRole", ctx, userID, valueobject.WalletRoleProvider).Return([]*entity.Transaction{
		tx(valueobject.TransactionCredit, 10, false),
		tx(valueobject.TransactionCredit, 5, true),
		tx(valueobject.TransactionDebit, 3, false),
	}, nil)

	balance, err := svc.Balance(ctx, userID, valueobject.WalletRoleProvider)
	assert.NoError(t, err)
	assert.Equal(t, 12.0, balance.Balance.Amount)
	repo.AssertExpectations(t)
}

func TestService_Balance_RepositoryError(t *testing.T) {
	repo := new(mockTransactionRepo)
	svc := NewService(repo)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("ListByUserRole", ctx, userID, valueobject.WalletRoleClient).Return(nil, errors.New("db down"))

	_, err := svc.Balance(ctx, userID, valueobject.WalletRoleClient)
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
}

func TestService_History_HidesInternal(t *testing.T) {
	repo := new(mockTransactionRepo)
	svc := NewService(repo)
	ctx := context.Background()
	userID := uuid.New()

	visible1 := tx(valueobject.TransactionCredit, 10, false)
	visible2 := tx(valueobject.TransactionDebit, 3, false)
	repo.On("ListByUserRole", ctx, userID, valueobject.WalletRoleProvider).Return([]*entity.Transaction{
		visible1,
		tx(valueobject.TransactionCredit, 5, true),
		visible2,
	}, nil)

	history, err := svc.History(ctx, userID, valueobject.WalletRoleProvider, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, history.Total)
	assert.Equal(t, []*entity.Transaction{visible1, visible2}, history.Items)

	page, err := svc.History(ctx, userID, valueobject.WalletRoleProvider, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []*entity.Transaction{visible2}, page.Items)

	empty, err := svc.History(ctx, userID, valueobject.WalletRoleProvider, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 2, empty.Total)
}

func TestService_ReleasePayment(t *testing.T) {
	repo := new(mockTransactionRepo)
	svc := NewService(repo)
	ctx := context.Background()
	providerID := uuid.New()
	gig := &entity.Gig{ID: uuid.New(), Title: "Логотип", Price: 150}

	repo.On("Create", ctx, mock.MatchedBy(func(t *entity.Transaction) bool {
		return t.UserID == providerID &&
			t.Role == valueobject.WalletRoleProvider &&
			t.Kind == valueobject.TransactionCredit &&
			t.Amount == 150 &&
			t.GigID != nil && *t.GigID == gig.ID &&
			!t.IsInternal
	})).Return(nil)

	credit, err := svc.ReleasePayment(ctx, gig, providerID)
	assert.NoError(t, err)
	assert.Equal(t, 150.0, credit.Amount)
	repo.AssertExpectations(t)
}

func TestService_ReleasePayment_InvalidPrice(t *testing.T) {
	repo := new(mockTransactionRepo)
	svc := NewService(repo)

	_, err := svc.ReleasePayment(context.Background(), &entity.Gig{ID: uuid.New(), Price: 0}, uuid.New())
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_RecordCardPayment(t *testing.T) {
	repo := new(mockTransactionRepo)
	svc := NewService(repo)
	ctx := context.Background()
	clientID := uuid.New()
	gig := &entity.Gig{ID: uuid.New(), Title: "Логотип", Price: 150}

	repo.On("CreateBatch", ctx, mock.MatchedBy(func(txs []*entity.Transaction) bool {
		return len(txs) == 2 && txs[0].IsInternal && txs[1].IsInternal
	})).Return(nil)

	txs, err := svc.RecordCardPayment(ctx, clientID, gig)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, valueobject.TransactionCredit, txs[0].Kind)
	assert.Equal(t, valueobject.TransactionDebit, txs[1].Kind)
	assert.Equal(t, 0.0, txs[0].SignedAmount()+txs[1].SignedAmount())
	repo.AssertExpectations(t)
}
