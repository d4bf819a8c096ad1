package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Event     string
	Payload   json.RawMessage
	IsRead    bool
	CreatedAt time.Time
}

// NewNotification сериализует данные события в payload вида {"event": ..., "data": ...}.
func NewNotification(userID uuid.UUID, event string, data any) (*Notification, error) {
	payload, err := json.Marshal(map[string]any{
		"event": event,
		"data":  data,
	})
	if err != nil {
		return nil, err
	}
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Event:     event,
		Payload:   payload,
		CreatedAt: time.Now(),
	}, nil
}
