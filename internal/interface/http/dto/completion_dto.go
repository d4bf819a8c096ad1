package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/infrastructure/storage"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/completion"
)

type SubmitCompletionRequest struct {
	Description string   `json:"description" binding:"required,notblank,max=5000"`
	Attachments []string `json:"attachments" binding:"omitempty,max=10,dive,url,max=2048"`
}

type RejectCompletionRequest struct {
	Reason string `json:"reason" binding:"required,notblank,max=2000"`
}

type PresignEvidenceRequest struct {
	FileName string `json:"file_name" binding:"required,notblank,max=255"`
}

type CompletionResponse struct {
	ID              uuid.UUID  `json:"id"`
	GigID           uuid.UUID  `json:"gig_id"`
	ProviderID      uuid.UUID  `json:"provider_id"`
	Description     string     `json:"description"`
	Attachments     []string   `json:"attachments"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	RejectionReason *string    `json:"rejection_reason"`
}

type EvidenceResponse struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type PresignedUploadResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}

func ToCompletionResponse(c *entity.JobCompletion) CompletionResponse {
	attachments := c.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return CompletionResponse{
		ID:              c.ID,
		GigID:           c.GigID,
		ProviderID:      c.ProviderID,
		Description:     c.Description,
		Attachments:     attachments,
		Status:          string(c.Status),
		CreatedAt:       c.CreatedAt,
		ReviewedAt:      c.ReviewedAt,
		RejectionReason: c.RejectionReason,
	}
}

func ToCompletionResponses(items []*entity.JobCompletion) []CompletionResponse {
	result := make([]CompletionResponse, 0, len(items))
	for _, c := range items {
		result = append(result, ToCompletionResponse(c))
	}
	return result
}

func ToEvidenceResponse(e *completion.UploadedEvidence) EvidenceResponse {
	return EvidenceResponse{URL: e.URL, ContentType: e.ContentType, Size: e.Size}
}

func ToPresignedUploadResponse(u *storage.PresignedUpload) PresignedUploadResponse {
	return PresignedUploadResponse{
		UploadURL: u.UploadURL,
		PublicURL: u.PublicURL,
		Key:       u.Key,
		ExpiresIn: u.ExpiresIn,
	}
}
