package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/event"
)

type NotificationSaver interface {
	Save(ctx context.Context, evt event.Event) (*entity.Notification, error)
}

// StoreSink сохраняет событие во входящие уведомления пользователя.
type StoreSink struct {
	saver NotificationSaver
}

func NewStoreSink(saver NotificationSaver) *StoreSink {
	return &StoreSink{saver: saver}
}

func (s *StoreSink) Name() string { return "store" }

func (s *StoreSink) Deliver(ctx context.Context, evt event.Event) error {
	if _, err := s.saver.Save(ctx, evt); err != nil {
		return fmt.Errorf("notify: не удалось сохранить уведомление: %w", err)
	}
	return nil
}

type UserSender interface {
	SendToUser(ctx context.Context, userID uuid.UUID, event string, data any) error
}

// RealtimeSink отправляет событие в открытые WebSocket-подключения получателя.
type RealtimeSink struct {
	sender UserSender
}

func NewRealtimeSink(sender UserSender) *RealtimeSink {
	return &RealtimeSink{sender: sender}
}

func (s *RealtimeSink) Name() string { return "realtime" }

func (s *RealtimeSink) Deliver(ctx context.Context, evt event.Event) error {
	data := map[string]any{
		"gig_id":      evt.Payload.GigID,
		"gig_title":   evt.Payload.GigTitle,
		"occurred_at": evt.OccurredAt,
	}
	for k, v := range evt.Payload.Extra {
		data[k] = v
	}
	return s.sender.SendToUser(ctx, evt.Payload.UserID, string(evt.Name), data)
}
