package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
)

type ConversationResponse struct {
	ID         uuid.UUID `json:"id"`
	GigID      uuid.UUID `json:"gig_id"`
	ClientID   uuid.UUID `json:"client_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToConversationResponse(conv *entity.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:         conv.ID,
		GigID:      conv.GigID,
		ClientID:   conv.ClientID,
		ProviderID: conv.ProviderID,
		CreatedAt:  conv.CreatedAt,
		UpdatedAt:  conv.UpdatedAt,
	}
}

func ToConversationResponses(convs []*entity.Conversation) []ConversationResponse {
	result := make([]ConversationResponse, len(convs))
	for i, conv := range convs {
		result[i] = ToConversationResponse(conv)
	}
	return result
}
