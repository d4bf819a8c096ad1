package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/quota"
)

func TestQuotaKey_DependsOnWindowStart(t *testing.T) {
	userID := uuid.New()
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	first := quotaKey(userID, valueobject.ActionProposal, quota.Window{Start: start})
	next := quotaKey(userID, valueobject.ActionProposal, quota.Window{Start: start.AddDate(0, 1, 0)})
	other := quotaKey(userID, valueobject.ActionContactView, quota.Window{Start: start})

	assert.Equal(t, "quota:"+userID.String()+":proposal:1772323200", first)
	assert.NotEqual(t, first, next)
	assert.NotEqual(t, first, other)
}

func TestQuotaCounter_TTL(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	c := &QuotaCounter{now: func() time.Time { return now }}

	t.Run("окно без сброса живёт бессрочно", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), c.ttl(quota.Window{}))
	})

	t.Run("ключ живёт до конца окна с запасом", func(t *testing.T) {
		end := now.Add(24 * time.Hour)
		assert.Equal(t, 25*time.Hour, c.ttl(quota.Window{Start: now, End: end}))
	})

	t.Run("прошедшее окно", func(t *testing.T) {
		assert.Equal(t, windowGrace, c.ttl(quota.Window{End: now.Add(-2 * time.Hour)}))
	})
}

// fakeRedis реализует только команды, которые использует QuotaCounter.
type fakeRedis struct {
	redis.Cmdable

	mu      sync.Mutex
	values  map[string]int64
	ttls    map[string]time.Duration
	setErr  error
	decrErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]int64), ttls: make(map[string]time.Duration)}
}

func (r *fakeRedis) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return redis.NewBoolResult(false, r.setErr)
	}
	if _, ok := r.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	r.values[key] = int64(value.(int))
	r.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (r *fakeRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key]++
	return redis.NewIntResult(r.values[key], nil)
}

func (r *fakeRedis) Decr(_ context.Context, key string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.decrErr != nil {
		return redis.NewIntResult(0, r.decrErr)
	}
	r.values[key]--
	return redis.NewIntResult(r.values[key], nil)
}

func (r *fakeRedis) value(key string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key]
}

func counterWindow(now time.Time) quota.Window {
	start := valueobject.ResetMonthly.WindowStart(now)
	return quota.Window{Start: start, End: valueobject.ResetMonthly.WindowEnd(start)}
}

func TestQuotaCounter_ReserveSeedsFromLedger(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	rdb := newFakeRedis()
	c := &QuotaCounter{client: rdb, now: func() time.Time { return now }}
	userID := uuid.New()
	window := counterWindow(now)
	key := quotaKey(userID, valueobject.ActionProposal, window)

	ok, err := c.Reserve(context.Background(), userID, valueobject.ActionProposal, window, 3, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), rdb.value(key))
	assert.Equal(t, window.End.Sub(now)+windowGrace, rdb.ttls[key])

	// повторный засев не перезаписывает счётчик
	ok, err = c.Reserve(context.Background(), userID, valueobject.ActionProposal, window, 3, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(3), rdb.value(key))
}

func TestQuotaCounter_ConcurrentReservesStopAtLimit(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	rdb := newFakeRedis()
	c := &QuotaCounter{client: rdb, now: func() time.Time { return now }}
	userID := uuid.New()
	window := counterWindow(now)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := c.Reserve(context.Background(), userID, valueobject.ActionContactView, window, 4, 0)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, granted)
	assert.Equal(t, int64(4), rdb.value(quotaKey(userID, valueobject.ActionContactView, window)))
}

func TestQuotaCounter_Release(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	rdb := newFakeRedis()
	c := &QuotaCounter{client: rdb, now: func() time.Time { return now }}
	userID := uuid.New()
	window := counterWindow(now)

	ok, err := c.Reserve(context.Background(), userID, valueobject.ActionProposal, window, 1, 0)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Release(context.Background(), userID, valueobject.ActionProposal, window))
	assert.Equal(t, int64(0), rdb.value(quotaKey(userID, valueobject.ActionProposal, window)))

	ok, err = c.Reserve(context.Background(), userID, valueobject.ActionProposal, window, 1, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestQuotaCounter_Errors(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	window := counterWindow(now)

	t.Run("счётчик недоступен", func(t *testing.T) {
		rdb := newFakeRedis()
		rdb.setErr = errors.New("connection refused")
		c := &QuotaCounter{client: rdb, now: func() time.Time { return now }}

		ok, err := c.Reserve(context.Background(), userID, valueobject.ActionProposal, window, 1, 0)
		require.Error(t, err)
		assert.False(t, ok)
		assert.False(t, errors.Is(err, quota.ErrCounterLimitReached))
	})

	t.Run("откат после превышения не удался", func(t *testing.T) {
		rdb := newFakeRedis()
		c := &QuotaCounter{client: rdb, now: func() time.Time { return now }}
		ok, err := c.Reserve(context.Background(), userID, valueobject.ActionProposal, window, 1, 1)
		require.NoError(t, err)
		require.False(t, ok)

		rdb.decrErr = errors.New("i/o timeout")
		ok, err = c.Reserve(context.Background(), userID, valueobject.ActionProposal, window, 1, 1)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, quota.ErrCounterLimitReached))
	})
}
