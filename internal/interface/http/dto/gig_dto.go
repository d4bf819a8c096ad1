package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
)

type CreateGigRequest struct {
	Title       string  `json:"title" binding:"required,notblank,max=200"`
	Description string  `json:"description" binding:"required,notblank,max=5000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

type GigResponse struct {
	ID          uuid.UUID `json:"id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToGigResponse(g *entity.Gig) GigResponse {
	return GigResponse{
		ID:          g.ID,
		AuthorID:    g.AuthorID,
		Title:       g.Title,
		Description: g.Description,
		Price:       g.Price,
		Status:      string(g.Status),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func ToGigResponses(gigs []*entity.Gig) []GigResponse {
	result := make([]GigResponse, 0, len(gigs))
	for _, g := range gigs {
		result = append(result, ToGigResponse(g))
	}
	return result
}
