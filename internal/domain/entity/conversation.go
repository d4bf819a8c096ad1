package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// Conversation уникальна для тройки (заказ, клиент, исполнитель).
type Conversation struct {
	ID         uuid.UUID
	GigID      uuid.UUID
	ClientID   uuid.UUID
	ProviderID uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewConversation(gigID, clientID, providerID uuid.UUID) (*Conversation, error) {
	if clientID == providerID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя создать беседу с самим собой")
	}
	now := time.Now()
	return &Conversation{
		ID:         uuid.New(),
		GigID:      gigID,
		ClientID:   clientID,
		ProviderID: providerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (c *Conversation) IsParticipant(userID uuid.UUID) bool {
	return c.ClientID == userID || c.ProviderID == userID
}
