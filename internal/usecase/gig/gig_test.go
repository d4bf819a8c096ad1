package gig_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/testutil/memstore"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/gig"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/wallet"
)

func TestCreateGigUseCase_Success(t *testing.T) {
	repo := memstore.NewGigs()
	uc := gig.NewCreateGigUseCase(repo)

	authorID := uuid.New()
	created, err := uc.Execute(context.Background(), gig.CreateGigInput{
		AuthorID:    authorID,
		Title:       "  Перевод статьи  ",
		Description: "Английский -> русский, 3000 слов",
		Price:       120,
	})
	require.NoError(t, err)

	assert.Equal(t, "Перевод статьи", created.Title)
	assert.Equal(t, valueobject.GigStatusDraft, created.Status)
	assert.Equal(t, authorID, repo.Get(created.ID).AuthorID)
}

func TestCreateGigUseCase_Validation(t *testing.T) {
	uc := gig.NewCreateGigUseCase(memstore.NewGigs())

	tests := []struct {
		name  string
		input gig.CreateGigInput
	}{
		{"empty title", gig.CreateGigInput{AuthorID: uuid.New(), Title: "", Description: "desc", Price: 10}},
		{"empty description", gig.CreateGigInput{AuthorID: uuid.New(), Title: "title", Description: " ", Price: 10}},
		{"zero price", gig.CreateGigInput{AuthorID: uuid.New(), Title: "title", Description: "desc", Price: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.input)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}
}

func TestGigLifecycle(t *testing.T) {
	repo := memstore.NewGigs()
	authorID := uuid.New()
	created, err := gig.NewCreateGigUseCase(repo).Execute(context.Background(), gig.CreateGigInput{
		AuthorID: authorID, Title: "Баннер", Description: "Баннер 728x90", Price: 40,
	})
	require.NoError(t, err)

	approved, err := gig.NewApproveGigUseCase(repo).Execute(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.GigStatusApproved, approved.Status)

	_, err = gig.NewApproveGigUseCase(repo).Execute(context.Background(), created.ID)
	assert.True(t, apperror.IsStateConflict(err))

	cancel := gig.NewCancelGigUseCase(repo)
	_, err = cancel.Execute(context.Background(), created.ID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))

	cancelled, err := cancel.Execute(context.Background(), created.ID, authorID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.GigStatusCancelled, cancelled.Status)

	_, err = cancel.Execute(context.Background(), created.ID, authorID)
	assert.True(t, apperror.IsStateConflict(err))
}

func TestListGigsUseCase_Filter(t *testing.T) {
	repo := memstore.NewGigs()
	create := gig.NewCreateGigUseCase(repo)
	approve := gig.NewApproveGigUseCase(repo)

	for i := 0; i < 3; i++ {
		g, err := create.Execute(context.Background(), gig.CreateGigInput{
			AuthorID: uuid.New(), Title: "Заказ", Description: "Описание", Price: 10,
		})
		require.NoError(t, err)
		if i > 0 {
			_, err = approve.Execute(context.Background(), g.ID)
			require.NoError(t, err)
		}
	}

	status := valueobject.GigStatusApproved
	gigs, total, err := gig.NewListGigsUseCase(repo).Execute(context.Background(), repository.GigFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, gigs, 2)
}

func TestFundGigUseCase(t *testing.T) {
	gigs := memstore.NewGigs()
	txs := memstore.NewTransactions()
	w := wallet.NewService(txs)
	clientID := uuid.New()

	created, err := gig.NewCreateGigUseCase(gigs).Execute(context.Background(), gig.CreateGigInput{
		AuthorID: clientID, Title: "Видеомонтаж", Description: "Ролик на 2 минуты", Price: 90,
	})
	require.NoError(t, err)

	fund := gig.NewFundGigUseCase(gigs, w)
	_, err = fund.Execute(context.Background(), created.ID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))

	booked, err := fund.Execute(context.Background(), created.ID, clientID)
	require.NoError(t, err)
	assert.Len(t, booked, 2)

	balance, err := w.Balance(context.Background(), clientID, valueobject.WalletRoleClient)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance.Balance.Amount)

	history, err := w.History(context.Background(), clientID, valueobject.WalletRoleClient, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, history.Items)
}
