package quota_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/testutil/memstore"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/quota"
)

type fixture struct {
	profiles *memstore.Profiles
	plans    *memstore.Plans
	usage    *memstore.Usage
	userID   uuid.UUID
	now      time.Time
}

func newFixture(limit *entity.PlanLimit) *fixture {
	userID := uuid.New()
	return &fixture{
		profiles: memstore.NewProfiles(&entity.Profile{
			UserID:   userID,
			FullName: "Анна",
			Email:    "anna@example.com",
			PlanTier: "free",
			UserType: valueobject.UserTypeProvider,
		}),
		plans:  memstore.NewPlans(limit),
		usage:  memstore.NewUsage(),
		userID: userID,
		now:    time.Date(2026, time.March, 18, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) ledger(opts ...quota.Option) *quota.Ledger {
	opts = append([]quota.Option{quota.WithClock(func() time.Time { return f.now })}, opts...)
	return quota.NewLedger(f.profiles, f.plans, f.usage, opts...)
}

func freePlan(userType valueobject.UserType) *entity.PlanLimit {
	return &entity.PlanLimit{
		PlanTier:     "free",
		UserType:     userType,
		ContactViews: 3,
		Proposals:    2,
		GigResponses: 5,
		ResetPeriod:  valueobject.ResetMonthly,
	}
}

func TestLedger_AllowedUntilCapReached(t *testing.T) {
	f := newFixture(freePlan(valueobject.UserTypeProvider))
	ledger := f.ledger()
	ctx := context.Background()

	prevUsed := -1
	for i := 0; i < 2; i++ {
		st, err := ledger.CanPerformAction(ctx, f.userID, valueobject.ActionProposal)
		require.NoError(t, err)
		assert.True(t, st.Allowed)
		assert.Equal(t, 2-i, st.Remaining)
		assert.Greater(t, st.Used, prevUsed)
		prevUsed = st.Used

		_, err = ledger.ConsumeQuota(ctx, f.userID, valueobject.ActionProposal, nil, "gig")
		require.NoError(t, err)
	}

	st, err := ledger.CanPerformAction(ctx, f.userID, valueobject.ActionProposal)
	require.NoError(t, err)
	assert.False(t, st.Allowed)
	assert.Equal(t, 2, st.Used)
	assert.Equal(t, 0, st.Remaining)

	_, err = ledger.ConsumeQuota(ctx, f.userID, valueobject.ActionProposal, nil, "gig")
	assert.True(t, apperror.IsQuotaExceeded(err))
	assert.ErrorIs(t, err, apperror.ErrProposalLimitReached)
	assert.Len(t, f.usage.Records(f.userID, valueobject.ActionProposal), 2)
}

func TestLedger_ActionsAreCountedSeparately(t *testing.T) {
	f := newFixture(freePlan(valueobject.UserTypeProvider))
	ledger := f.ledger()
	ctx := context.Background()

	_, err := ledger.ConsumeQuota(ctx, f.userID, valueobject.ActionContactView, nil, "gig")
	require.NoError(t, err)

	st, err := ledger.CanPerformAction(ctx, f.userID, valueobject.ActionProposal)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Used)
}

func TestLedger_FallsBackToBothUserType(t *testing.T) {
	f := newFixture(freePlan(valueobject.UserTypeBoth))
	ledger := f.ledger()

	st, err := ledger.CanPerformAction(context.Background(), f.userID, valueobject.ActionContactView)
	require.NoError(t, err)
	assert.True(t, st.Allowed)
	assert.Equal(t, 3, st.Limit)
}

func TestLedger_FailsClosedWithoutPlanOrProfile(t *testing.T) {
	f := newFixture(&entity.PlanLimit{PlanTier: "pro", UserType: valueobject.UserTypeBoth, ResetPeriod: valueobject.ResetMonthly})
	ledger := f.ledger()
	ctx := context.Background()

	_, err := ledger.CanPerformAction(ctx, f.userID, valueobject.ActionProposal)
	assert.ErrorIs(t, err, apperror.ErrPlanNotFound)

	_, err = ledger.ConsumeQuota(ctx, f.userID, valueobject.ActionProposal, nil, "gig")
	assert.ErrorIs(t, err, apperror.ErrPlanNotFound)

	_, err = ledger.CanPerformAction(ctx, uuid.New(), valueobject.ActionProposal)
	assert.ErrorIs(t, err, apperror.ErrProfileNotFound)

	assert.Empty(t, f.usage.Records(f.userID, valueobject.ActionProposal))
}

func TestLedger_UnlimitedSentinel(t *testing.T) {
	limit := freePlan(valueobject.UserTypeProvider)
	limit.Proposals = entity.UnlimitedQuota
	f := newFixture(limit)
	ledger := f.ledger()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, err := ledger.ConsumeQuota(ctx, f.userID, valueobject.ActionProposal, nil, "gig")
		require.NoError(t, err)
	}

	st, err := ledger.CanPerformAction(ctx, f.userID, valueobject.ActionProposal)
	require.NoError(t, err)
	assert.True(t, st.Allowed)
	assert.True(t, st.Unlimited)
	assert.Equal(t, 50, st.Used)
}

func TestLedger_UsageOutsideWindowIsIgnored(t *testing.T) {
	f := newFixture(freePlan(valueobject.UserTypeProvider))
	ctx := context.Background()

	f.now = time.Date(2026, time.February, 27, 10, 0, 0, 0, time.UTC)
	ledger := f.ledger()
	for i := 0; i < 2; i++ {
		_, err := ledger.ConsumeQuota(ctx, f.userID, valueobject.ActionProposal, nil, "gig")
		require.NoError(t, err)
	}

	f.now = time.Date(2026, time.March, 1, 0, 0, 1, 0, time.UTC)
	st, err := ledger.CanPerformAction(ctx, f.userID, valueobject.ActionProposal)
	require.NoError(t, err)
	assert.True(t, st.Allowed)
	assert.Equal(t, 0, st.Used)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), st.WindowStart)
	require.NotNil(t, st.ResetsAt)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), *st.ResetsAt)
}

type fakeCounter struct {
	allow    bool
	err      error
	reserved int
	released int
}

func (c *fakeCounter) Reserve(_ context.Context, _ uuid.UUID, _ valueobject.ActionType, _ quota.Window, _, _ int) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	if c.allow {
		c.reserved++
	}
	return c.allow, nil
}

func (c *fakeCounter) Release(context.Context, uuid.UUID, valueobject.ActionType, quota.Window) error {
	c.released++
	return nil
}

func TestLedger_StrictCounterRejectsConcurrentOvershoot(t *testing.T) {
	f := newFixture(freePlan(valueobject.UserTypeProvider))
	counter := &fakeCounter{allow: false}
	ledger := f.ledger(quota.WithCounter(counter))

	_, err := ledger.ConsumeQuota(context.Background(), f.userID, valueobject.ActionProposal, nil, "gig")
	assert.True(t, apperror.IsQuotaExceeded(err))
	assert.Empty(t, f.usage.Records(f.userID, valueobject.ActionProposal))
}

func TestLedger_StrictCounterReleasedOnWriteFailure(t *testing.T) {
	f := newFixture(freePlan(valueobject.UserTypeProvider))
	f.usage.FailWrites = true
	counter := &fakeCounter{allow: true}
	ledger := f.ledger(quota.WithCounter(counter))

	_, err := ledger.ConsumeQuota(context.Background(), f.userID, valueobject.ActionProposal, nil, "gig")
	require.Error(t, err)
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
	assert.Equal(t, 1, counter.reserved)
	assert.Equal(t, 1, counter.released)
}

func TestLedger_StrictCounterUnavailableFallsBackToSoftLimit(t *testing.T) {
	f := newFixture(freePlan(valueobject.UserTypeProvider))
	counter := &fakeCounter{err: errors.New("connection refused")}
	ledger := f.ledger(quota.WithCounter(counter))

	_, err := ledger.ConsumeQuota(context.Background(), f.userID, valueobject.ActionProposal, nil, "gig")
	require.NoError(t, err)
	assert.Len(t, f.usage.Records(f.userID, valueobject.ActionProposal), 1)
	assert.Equal(t, 0, counter.released)
}

func TestLedger_StrictCounterRollbackFailureFailsClosed(t *testing.T) {
	f := newFixture(freePlan(valueobject.UserTypeProvider))
	counter := &fakeCounter{err: fmt.Errorf("%w: decr: i/o timeout", quota.ErrCounterLimitReached)}
	ledger := f.ledger(quota.WithCounter(counter))

	_, err := ledger.ConsumeQuota(context.Background(), f.userID, valueobject.ActionProposal, nil, "gig")
	assert.True(t, apperror.IsQuotaExceeded(err))
	assert.Empty(t, f.usage.Records(f.userID, valueobject.ActionProposal))
	assert.Equal(t, 0, counter.released)
}

func TestLedger_Summary(t *testing.T) {
	limit := freePlan(valueobject.UserTypeProvider)
	limit.SearchBoost = true
	f := newFixture(limit)
	ledger := f.ledger()
	ctx := context.Background()

	_, err := ledger.ConsumeQuota(ctx, f.userID, valueobject.ActionContactView, nil, "gig")
	require.NoError(t, err)

	summary, err := ledger.Summary(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "free", summary.PlanTier)
	assert.True(t, summary.SearchBoost)
	require.Len(t, summary.Actions, 3)
	assert.Equal(t, valueobject.ActionContactView, summary.Actions[0].Action)
	assert.Equal(t, 1, summary.Actions[0].Used)
	assert.Equal(t, 2, summary.Actions[0].Remaining)
}

func TestLedger_RejectsUnknownAction(t *testing.T) {
	f := newFixture(freePlan(valueobject.UserTypeProvider))
	_, err := f.ledger().CanPerformAction(context.Background(), f.userID, valueobject.ActionType("boost"))
	assert.True(t, apperror.IsValidation(err))
}
