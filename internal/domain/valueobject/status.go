package valueobject

import "github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"

type GigStatus string

const (
	GigStatusDraft      GigStatus = "draft"
	GigStatusApproved   GigStatus = "approved"
	GigStatusInProgress GigStatus = "in_progress"
	GigStatusCompleted  GigStatus = "completed"
	GigStatusCancelled  GigStatus = "cancelled"
)

var gigTransitions = map[GigStatus][]GigStatus{
	GigStatusDraft:      {GigStatusApproved, GigStatusCancelled},
	GigStatusApproved:   {GigStatusInProgress, GigStatusCancelled},
	GigStatusInProgress: {GigStatusCompleted, GigStatusCancelled},
	GigStatusCompleted:  {},
	GigStatusCancelled:  {},
}

func (s GigStatus) IsValid() bool {
	_, ok := gigTransitions[s]
	return ok
}

func (s GigStatus) IsTerminal() bool {
	return s == GigStatusCompleted || s == GigStatusCancelled
}

func (s GigStatus) CanTransitionTo(newStatus GigStatus) bool {
	for _, status := range gigTransitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewGigStatus(status string) (GigStatus, error) {
	s := GigStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заказа")
	}
	return s, nil
}

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusAccepted, ProposalStatusRejected:
		return true
	}
	return false
}

func NewProposalStatus(status string) (ProposalStatus, error) {
	s := ProposalStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус предложения")
	}
	return s, nil
}

// CompletionStatus повторяет жизненный цикл предложения: pending -> {approved, rejected}.
type CompletionStatus string

const (
	CompletionStatusPending  CompletionStatus = "pending"
	CompletionStatusApproved CompletionStatus = "approved"
	CompletionStatusRejected CompletionStatus = "rejected"
)

func (s CompletionStatus) IsValid() bool {
	switch s {
	case CompletionStatusPending, CompletionStatusApproved, CompletionStatusRejected:
		return true
	}
	return false
}

func NewCompletionStatus(status string) (CompletionStatus, error) {
	s := CompletionStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус запроса на завершение")
	}
	return s, nil
}
