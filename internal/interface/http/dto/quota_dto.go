package dto

import (
	"time"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/contact"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/quota"
)

type QuotaStatusResponse struct {
	Action      string     `json:"action"`
	Allowed     bool       `json:"allowed"`
	Used        int        `json:"used"`
	Limit       *int       `json:"limit"`
	Remaining   *int       `json:"remaining"`
	Unlimited   bool       `json:"unlimited"`
	WindowStart *time.Time `json:"window_start"`
	ResetsAt    *time.Time `json:"resets_at"`
}

type QuotaSummaryResponse struct {
	PlanTier         string                `json:"plan_tier"`
	UserType         string                `json:"user_type"`
	ResetPeriod      string                `json:"reset_period"`
	SearchBoost      bool                  `json:"search_boost"`
	ProfileHighlight bool                  `json:"profile_highlight"`
	Actions          []QuotaStatusResponse `json:"actions"`
}

type ContactDecisionResponse struct {
	CanView   bool   `json:"can_view"`
	Reason    string `json:"reason"`
	Remaining *int   `json:"remaining"`
}

type ContactInfoResponse struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

// ToQuotaStatusResponse отдаёт null в limit и remaining для безлимитных действий.
func ToQuotaStatusResponse(s *quota.Status) QuotaStatusResponse {
	resp := QuotaStatusResponse{
		Action:    string(s.Action),
		Allowed:   s.Allowed,
		Used:      s.Used,
		Unlimited: s.Unlimited,
		ResetsAt:  s.ResetsAt,
	}
	if !s.WindowStart.IsZero() {
		start := s.WindowStart
		resp.WindowStart = &start
	}
	if !s.Unlimited {
		limit, remaining := s.Limit, s.Remaining
		resp.Limit = &limit
		resp.Remaining = &remaining
	}
	return resp
}

func ToQuotaSummaryResponse(s *quota.Summary) QuotaSummaryResponse {
	actions := make([]QuotaStatusResponse, 0, len(s.Actions))
	for i := range s.Actions {
		actions = append(actions, ToQuotaStatusResponse(&s.Actions[i]))
	}
	return QuotaSummaryResponse{
		PlanTier:         s.PlanTier,
		UserType:         string(s.UserType),
		ResetPeriod:      string(s.ResetPeriod),
		SearchBoost:      s.SearchBoost,
		ProfileHighlight: s.ProfileHighlight,
		Actions:          actions,
	}
}

func ToContactDecisionResponse(d *contact.Decision) ContactDecisionResponse {
	resp := ContactDecisionResponse{CanView: d.CanView, Reason: string(d.Reason)}
	if d.Reason == contact.ReasonHasCredits && !entity.IsUnlimited(d.Remaining) {
		remaining := d.Remaining
		resp.Remaining = &remaining
	}
	return resp
}

func ToContactInfoResponse(info *entity.ContactInfo) ContactInfoResponse {
	return ContactInfoResponse{Name: info.Name, Email: info.Email, Phone: info.Phone}
}
