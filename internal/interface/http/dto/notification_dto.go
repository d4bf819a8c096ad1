package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
)

type NotificationResponse struct {
	ID        uuid.UUID       `json:"id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}

func ToNotificationResponses(items []*entity.Notification) []NotificationResponse {
	result := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		data := n.Payload
		if len(data) == 0 {
			data = json.RawMessage("{}")
		}
		result = append(result, NotificationResponse{
			ID:        n.ID,
			Event:     n.Event,
			Data:      data,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return result
}
