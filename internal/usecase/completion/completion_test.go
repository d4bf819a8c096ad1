package completion_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/event"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/testutil/memstore"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/completion"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/wallet"
)

type fixture struct {
	gigs         *memstore.Gigs
	proposals    *memstore.Proposals
	completions  *memstore.Completions
	transactions *memstore.Transactions
	notifier     *memstore.Notifier
	wallet       *wallet.Service

	gig        *entity.Gig
	clientID   uuid.UUID
	providerID uuid.UUID

	submit  *completion.SubmitCompletionUseCase
	approve *completion.ApproveCompletionUseCase
	reject  *completion.RejectCompletionUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gigs := memstore.NewGigs()
	f := &fixture{
		gigs:         gigs,
		proposals:    memstore.NewProposals(gigs),
		completions:  memstore.NewCompletions(),
		transactions: memstore.NewTransactions(),
		notifier:     &memstore.Notifier{},
		clientID:     uuid.New(),
		providerID:   uuid.New(),
	}

	gig, err := entity.NewGig(f.clientID, "Мобильное приложение", "Прототип на Flutter", 500)
	require.NoError(t, err)
	require.NoError(t, gig.Approve())

	p, err := entity.NewProposal(gig.ID, f.providerID, entity.ProposalDraft{
		Title:         "Прототип",
		Description:   "Сделаю прототип",
		ProposedPrice: 500,
		TimelineDays:  14,
		Deliverables:  []string{"apk"},
	})
	require.NoError(t, err)
	require.NoError(t, p.Accept())
	require.NoError(t, f.proposals.Create(context.Background(), p))

	require.NoError(t, gig.StartWork())
	f.gigs.Put(gig)
	f.gig = gig

	f.wallet = wallet.NewService(f.transactions)
	f.submit = completion.NewSubmitCompletionUseCase(f.completions, f.gigs, f.proposals, f.notifier)
	f.approve = completion.NewApproveCompletionUseCase(f.completions, f.gigs, f.wallet, f.notifier)
	f.reject = completion.NewRejectCompletionUseCase(f.completions, f.gigs, f.notifier)
	return f
}

func (f *fixture) input() completion.SubmitCompletionInput {
	return completion.SubmitCompletionInput{
		GigID:       f.gig.ID,
		ProviderID:  f.providerID,
		Description: "Прототип готов, ссылка на сборку во вложении",
		Attachments: []string{"https://files.example.com/build.apk"},
	}
}

func (f *fixture) submitted(t *testing.T) *entity.JobCompletion {
	t.Helper()
	c, err := f.submit.Execute(context.Background(), f.input())
	require.NoError(t, err)
	return c
}

func TestSubmitCompletion_Success(t *testing.T) {
	f := newFixture(t)

	c := f.submitted(t)
	assert.Equal(t, valueobject.CompletionStatusPending, c.Status)

	ev, ok := f.notifier.Last(event.CompletionSubmitted)
	require.True(t, ok)
	assert.Equal(t, f.clientID, ev.Payload.UserID)
}

func TestSubmitCompletion_OnlyOnePending(t *testing.T) {
	f := newFixture(t)
	f.submitted(t)

	_, err := f.submit.Execute(context.Background(), f.input())
	assert.Equal(t, apperror.ErrCompletionAlreadyPending, err)
	assert.Equal(t, 1, f.completions.Count())
}

func TestSubmitCompletion_AfterRejectionAllowed(t *testing.T) {
	f := newFixture(t)
	first := f.submitted(t)

	_, err := f.reject.Execute(context.Background(), first.ID, f.clientID, "Нет экрана входа")
	require.NoError(t, err)

	f.submitted(t)
	assert.Equal(t, 2, f.completions.Count())
}

func TestSubmitCompletion_GigNotInProgress(t *testing.T) {
	f := newFixture(t)
	gig, err := entity.NewGig(f.clientID, "Другой заказ", "Ещё не начат", 100)
	require.NoError(t, err)
	f.gigs.Put(gig)

	in := f.input()
	in.GigID = gig.ID
	_, err = f.submit.Execute(context.Background(), in)
	assert.Equal(t, apperror.ErrGigNotInProgress, err)
	assert.Equal(t, 0, f.completions.Count())
}

func TestSubmitCompletion_NotTheAcceptedProvider(t *testing.T) {
	f := newFixture(t)
	in := f.input()
	in.ProviderID = uuid.New()

	_, err := f.submit.Execute(context.Background(), in)
	assert.True(t, apperror.IsForbidden(err))
}

func TestSubmitCompletion_InvalidInput(t *testing.T) {
	f := newFixture(t)
	in := f.input()
	in.Description = "   "
	_, err := f.submit.Execute(context.Background(), in)
	assert.True(t, apperror.IsValidation(err))

	in = f.input()
	in.Attachments = []string{"ftp://files.example.com/build.apk"}
	_, err = f.submit.Execute(context.Background(), in)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 0, f.completions.Count())
}

func TestApproveCompletion_Success(t *testing.T) {
	f := newFixture(t)
	c := f.submitted(t)

	approved, err := f.approve.Execute(context.Background(), c.ID, f.clientID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.CompletionStatusApproved, approved.Status)
	assert.NotNil(t, approved.ReviewedAt)
	assert.Equal(t, valueobject.GigStatusCompleted, f.gigs.Get(f.gig.ID).Status)

	balance, err := f.wallet.Balance(context.Background(), f.providerID, valueobject.WalletRoleProvider)
	require.NoError(t, err)
	assert.Equal(t, 500.0, balance.Balance.Amount)

	ev, ok := f.notifier.Last(event.CompletionApproved)
	require.True(t, ok)
	assert.Equal(t, f.providerID, ev.Payload.UserID)
	_, ok = f.notifier.Last(event.PaymentReleased)
	assert.True(t, ok)
}

func TestApproveCompletion_OnlyGigOwner(t *testing.T) {
	f := newFixture(t)
	c := f.submitted(t)

	_, err := f.approve.Execute(context.Background(), c.ID, f.providerID)
	assert.True(t, apperror.IsForbidden(err))

	stored, err := f.completions.FindByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.CompletionStatusPending, stored.Status)
	assert.Equal(t, valueobject.GigStatusInProgress, f.gigs.Get(f.gig.ID).Status)
}

func TestApproveCompletion_NotPending(t *testing.T) {
	f := newFixture(t)
	c := f.submitted(t)
	_, err := f.reject.Execute(context.Background(), c.ID, f.clientID, "Переделать")
	require.NoError(t, err)

	_, err = f.approve.Execute(context.Background(), c.ID, f.clientID)
	assert.Equal(t, apperror.ErrCompletionNotPending, err)
	_, err = f.reject.Execute(context.Background(), c.ID, f.clientID, "Ещё раз")
	assert.Equal(t, apperror.ErrCompletionNotPending, err)
}

func TestApproveCompletion_ConcurrentApprovalsPayOnce(t *testing.T) {
	f := newFixture(t)
	c := f.submitted(t)

	approve := completion.NewApproveCompletionUseCase(f.completions, memstore.NewSyncedGigs(f.gigs, 2), f.wallet, f.notifier)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = approve.Execute(context.Background(), c.ID, f.clientID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apperror.ErrCompletionNotPending, err)
	}
	assert.Equal(t, 1, succeeded)

	balance, err := f.wallet.Balance(context.Background(), f.providerID, valueobject.WalletRoleProvider)
	require.NoError(t, err)
	assert.Equal(t, 500.0, balance.Balance.Amount)
	assert.Equal(t, valueobject.GigStatusCompleted, f.gigs.Get(f.gig.ID).Status)
}

func TestApproveCompletion_GigUpdateFailureIsNotRolledBack(t *testing.T) {
	f := newFixture(t)
	c := f.submitted(t)
	f.gigs.FailUpdate = true

	approved, err := f.approve.Execute(context.Background(), c.ID, f.clientID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.CompletionStatusApproved, approved.Status)
	assert.Equal(t, valueobject.GigStatusInProgress, f.gigs.Get(f.gig.ID).Status)
}

func TestApproveCompletion_PaymentFailureStillApproves(t *testing.T) {
	f := newFixture(t)
	c := f.submitted(t)
	f.transactions.FailWrites = true

	_, err := f.approve.Execute(context.Background(), c.ID, f.clientID)
	require.NoError(t, err)

	_, ok := f.notifier.Last(event.PaymentReleased)
	assert.False(t, ok)
	_, ok = f.notifier.Last(event.CompletionApproved)
	assert.True(t, ok)
}

func TestRejectCompletion_RequiresReason(t *testing.T) {
	f := newFixture(t)
	c := f.submitted(t)

	_, err := f.reject.Execute(context.Background(), c.ID, f.clientID, "  ")
	assert.True(t, apperror.IsValidation(err))

	rejected, err := f.reject.Execute(context.Background(), c.ID, f.clientID, "Нет экрана входа")
	require.NoError(t, err)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "Нет экрана входа", *rejected.RejectionReason)
	assert.Equal(t, valueobject.GigStatusInProgress, f.gigs.Get(f.gig.ID).Status)

	ev, ok := f.notifier.Last(event.CompletionRejected)
	require.True(t, ok)
	assert.Equal(t, f.providerID, ev.Payload.UserID)
}

func TestGetCompletion_Access(t *testing.T) {
	f := newFixture(t)
	c := f.submitted(t)

	get := completion.NewGetCompletionUseCase(f.completions, f.gigs)
	_, err := get.Execute(context.Background(), c.ID, f.clientID)
	assert.NoError(t, err)
	_, err = get.Execute(context.Background(), c.ID, f.providerID)
	assert.NoError(t, err)
	_, err = get.Execute(context.Background(), c.ID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))

	list := completion.NewListGigCompletionsUseCase(f.completions, f.gigs)
	all, err := list.Execute(context.Background(), f.gig.ID, f.clientID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	none, err := list.Execute(context.Background(), f.gig.ID, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}
