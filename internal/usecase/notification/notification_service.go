package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/event"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// Service содержит бизнес-логику работы с уведомлениями в приложении.
type Service struct {
	repo repository.NotificationRepository
}

// NewService создаёт новый сервис уведомлений.
func NewService(repo repository.NotificationRepository) *Service {
	return &Service{repo: repo}
}

// Save сохраняет событие как уведомление получателя.
func (s *Service) Save(ctx context.Context, ev event.Event) (*entity.Notification, error) {
	data := map[string]any{
		"gig_id":    ev.Payload.GigID,
		"gig_title": ev.Payload.GigTitle,
	}
	for k, v := range ev.Payload.Extra {
		data[k] = v
	}

	n, err := entity.NewNotification(ev.Payload.UserID, string(ev.Name), data)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сформировать уведомление")
	}
	if !ev.OccurredAt.IsZero() {
		n.CreatedAt = ev.OccurredAt
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить уведомление")
	}
	return n, nil
}

// List возвращает уведомления пользователя, от новых к старым.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]*entity.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, userID, limit, offset, unreadOnly)
}

// MarkAsRead отмечает уведомление как прочитанное.
func (s *Service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if n.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.repo.MarkAsRead(ctx, id)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
