package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/validation"
)

// Gig - единица работы, на которую исполнители подают предложения.
type Gig struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Title       string
	Description string
	Price       float64
	Status      valueobject.GigStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewGig(authorID uuid.UUID, title, description string, price float64) (*Gig, error) {
	if err := validation.ValidateText("название заказа", title, validation.MaxTitleLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateText("описание заказа", description, validation.MaxDescriptionLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if _, err := valueobject.NewPrice(price); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Gig{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Price:       price,
		Status:      valueobject.GigStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (g *Gig) transition(to valueobject.GigStatus, message string) error {
	if !g.Status.CanTransitionTo(to) {
		return apperror.New(apperror.ErrCodeStateConflict, message)
	}
	g.Status = to
	g.UpdatedAt = time.Now()
	return nil
}

// Approve - модерация: заказ становится доступен для предложений.
func (g *Gig) Approve() error {
	return g.transition(valueobject.GigStatusApproved, "невозможно одобрить заказ в текущем статусе")
}

func (g *Gig) StartWork() error {
	return g.transition(valueobject.GigStatusInProgress, "невозможно начать работу в текущем статусе")
}

func (g *Gig) Complete() error {
	if g.Status != valueobject.GigStatusInProgress {
		return apperror.ErrGigNotInProgress
	}
	return g.transition(valueobject.GigStatusCompleted, "невозможно завершить заказ в текущем статусе")
}

func (g *Gig) Cancel() error {
	return g.transition(valueobject.GigStatusCancelled, "невозможно отменить заказ в текущем статусе")
}

func (g *Gig) IsOwnedBy(userID uuid.UUID) bool {
	return g.AuthorID == userID
}

func (g *Gig) IsOpenForProposals() bool {
	return g.Status == valueobject.GigStatusApproved
}

func (g *Gig) IsInProgress() bool {
	return g.Status == valueobject.GigStatusInProgress
}
