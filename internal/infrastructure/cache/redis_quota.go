package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/quota"
)

// запас на расхождение часов между инстансами
const windowGrace = time.Hour

// NewRedisClient открывает подключение к Redis и проверяет его доступность.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: не удалось подключиться к %s: %w", addr, err)
	}
	return client, nil
}

// QuotaCounter - строгий счётчик квоты в Redis. Ключ живёт до конца окна,
// при первом обращении он засевается расходом из журнала.
type QuotaCounter struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewQuotaCounter(client redis.Cmdable) *QuotaCounter {
	return &QuotaCounter{client: client, now: time.Now}
}

func (c *QuotaCounter) Reserve(ctx context.Context, userID uuid.UUID, action valueobject.ActionType, window quota.Window, limit, used int) (bool, error) {
	key := quotaKey(userID, action, window)

	if err := c.client.SetNX(ctx, key, used, c.ttl(window)).Err(); err != nil {
		return false, fmt.Errorf("redis: не удалось инициализировать счётчик %s: %w", key, err)
	}

	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis: не удалось увеличить счётчик %s: %w", key, err)
	}
	if count > int64(limit) {
		if err := c.client.Decr(ctx, key).Err(); err != nil {
			return false, fmt.Errorf("%w: redis: не удалось откатить счётчик %s: %w", quota.ErrCounterLimitReached, key, err)
		}
		return false, nil
	}
	return true, nil
}

func (c *QuotaCounter) Release(ctx context.Context, userID uuid.UUID, action valueobject.ActionType, window quota.Window) error {
	key := quotaKey(userID, action, window)
	if err := c.client.Decr(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: не удалось освободить резерв %s: %w", key, err)
	}
	return nil
}

// ttl возвращает время жизни ключа; 0 для окон без сброса.
func (c *QuotaCounter) ttl(window quota.Window) time.Duration {
	if window.End.IsZero() {
		return 0
	}
	ttl := window.End.Sub(c.now()) + windowGrace
	if ttl <= 0 {
		return windowGrace
	}
	return ttl
}

func quotaKey(userID uuid.UUID, action valueobject.ActionType, window quota.Window) string {
	return fmt.Sprintf("quota:%s:%s:%d", userID, action, window.Start.Unix())
}
