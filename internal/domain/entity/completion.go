package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/validation"
)

// JobCompletion - заявка исполнителя о выполненной работе.
// Одновременно по заказу может существовать только одна заявка в статусе pending.
type JobCompletion struct {
	ID              uuid.UUID
	GigID           uuid.UUID
	ProviderID      uuid.UUID
	Description     string
	Attachments     []string
	Status          valueobject.CompletionStatus
	CreatedAt       time.Time
	ReviewedAt      *time.Time
	RejectionReason *string
}

func NewJobCompletion(gigID, providerID uuid.UUID, description string, attachments []string) (*JobCompletion, error) {
	if err := validation.ValidateText("описание выполненной работы", description, validation.MaxDescriptionLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateAttachmentURLs(attachments); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	cleaned := make([]string, 0, len(attachments))
	for _, a := range attachments {
		cleaned = append(cleaned, strings.TrimSpace(a))
	}

	return &JobCompletion{
		ID:          uuid.New(),
		GigID:       gigID,
		ProviderID:  providerID,
		Description: strings.TrimSpace(description),
		Attachments: cleaned,
		Status:      valueobject.CompletionStatusPending,
		CreatedAt:   time.Now(),
	}, nil
}

func (c *JobCompletion) Approve() error {
	if c.Status != valueobject.CompletionStatusPending {
		return apperror.ErrCompletionNotPending
	}
	now := time.Now()
	c.Status = valueobject.CompletionStatusApproved
	c.ReviewedAt = &now
	return nil
}

func (c *JobCompletion) Reject(reason string) error {
	if c.Status != valueobject.CompletionStatusPending {
		return apperror.ErrCompletionNotPending
	}
	reason = strings.TrimSpace(reason)
	if err := validation.ValidateText("причина отказа", reason, validation.MaxReasonLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	now := time.Now()
	c.Status = valueobject.CompletionStatusRejected
	c.ReviewedAt = &now
	c.RejectionReason = &reason
	return nil
}

func (c *JobCompletion) IsPending() bool {
	return c.Status == valueobject.CompletionStatusPending
}
