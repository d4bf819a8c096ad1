package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
)

type CreateProposalRequest struct {
	Title         string   `json:"title" binding:"required,notblank,max=200"`
	Description   string   `json:"description" binding:"required,notblank,max=5000"`
	ProposedPrice float64  `json:"proposed_price" binding:"required,gt=0"`
	TimelineDays  int      `json:"timeline_days" binding:"required,min=1,max=365"`
	Deliverables  []string `json:"deliverables" binding:"required,min=1,max=20,dive,notblank,max=500"`
	Terms         *string  `json:"terms" binding:"omitempty,max=5000"`
	ExpiresAt     *string  `json:"expires_at"`
}

type RejectProposalRequest struct {
	Reason *string `json:"reason" binding:"omitempty,max=2000"`
}

type ProposalResponse struct {
	ID                uuid.UUID  `json:"id"`
	GigID             uuid.UUID  `json:"gig_id"`
	ResponderID       uuid.UUID  `json:"responder_id"`
	CreatedBy         uuid.UUID  `json:"created_by"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	ProposedPrice     float64    `json:"proposed_price"`
	TimelineDays      int        `json:"timeline_days"`
	Deliverables      []string   `json:"deliverables"`
	Terms             *string    `json:"terms"`
	ExpiresAt         *time.Time `json:"expires_at"`
	Status            string     `json:"status"`
	ParentProposalID  *uuid.UUID `json:"parent_proposal_id"`
	IsCounterProposal bool       `json:"is_counter_proposal"`
	RejectionReason   *string    `json:"rejection_reason"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type CreateProposalResponse struct {
	Proposal     ProposalResponse      `json:"proposal"`
	Conversation *ConversationResponse `json:"conversation,omitempty"`
}

// ParseTimestamp разбирает необязательную дату в формате RFC3339.
func ParseTimestamp(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func ToProposalResponse(p *entity.Proposal) ProposalResponse {
	deliverables := p.Deliverables
	if deliverables == nil {
		deliverables = []string{}
	}
	return ProposalResponse{
		ID:                p.ID,
		GigID:             p.GigID,
		ResponderID:       p.ResponderID,
		CreatedBy:         p.CreatedBy,
		Title:             p.Title,
		Description:       p.Description,
		ProposedPrice:     p.ProposedPrice,
		TimelineDays:      p.TimelineDays,
		Deliverables:      deliverables,
		Terms:             p.Terms,
		ExpiresAt:         p.ExpiresAt,
		Status:            string(p.Status),
		ParentProposalID:  p.ParentProposalID,
		IsCounterProposal: p.IsCounterProposal,
		RejectionReason:   p.RejectionReason,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func ToProposalResponses(proposals []*entity.Proposal) []ProposalResponse {
	responses := make([]ProposalResponse, 0, len(proposals))
	for _, p := range proposals {
		responses = append(responses, ToProposalResponse(p))
	}
	return responses
}
