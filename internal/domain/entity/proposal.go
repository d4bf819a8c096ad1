package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/validation"
)

// Proposal - предложение исполнителя по заказу (таблица gig_responses).
//
// ResponderID всегда указывает на исполнителя, а CreatedBy - на автора записи:
// у встречного предложения от владельца заказа они различаются.
type Proposal struct {
	ID                uuid.UUID
	GigID             uuid.UUID
	ResponderID       uuid.UUID
	CreatedBy         uuid.UUID
	Title             string
	Description       string
	ProposedPrice     float64
	TimelineDays      int
	Deliverables      []string
	Terms             *string
	ExpiresAt         *time.Time
	Status            valueobject.ProposalStatus
	ParentProposalID  *uuid.UUID
	IsCounterProposal bool
	RejectionReason   *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProposalDraft - поля предложения, которые заполняет пользователь.
type ProposalDraft struct {
	Title         string
	Description   string
	ProposedPrice float64
	TimelineDays  int
	Deliverables  []string
	Terms         *string
	ExpiresAt     *time.Time
}

// Validate проверяет черновик до любых записей в хранилище.
func (d ProposalDraft) Validate() error {
	if err := validation.ValidateText("заголовок предложения", d.Title, validation.MaxTitleLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateText("описание предложения", d.Description, validation.MaxDescriptionLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if _, err := valueobject.NewPrice(d.ProposedPrice); err != nil {
		return err
	}
	if d.ProposedPrice > validation.MaxPrice {
		return apperror.New(apperror.ErrCodeValidation, "предложенная цена слишком велика")
	}
	if d.TimelineDays <= 0 || d.TimelineDays > validation.MaxTimelineDays {
		return apperror.New(apperror.ErrCodeValidation, "срок выполнения должен быть от 1 до 365 дней")
	}
	if err := validation.ValidateDeliverables(d.Deliverables); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if d.Terms != nil {
		if err := validation.ValidateLength("условия", *d.Terms, 0, validation.MaxTermsLength); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if d.ExpiresAt != nil && d.ExpiresAt.Before(time.Now()) {
		return apperror.New(apperror.ErrCodeValidation, "срок действия предложения не может быть в прошлом")
	}
	return nil
}

func NewProposal(gigID, responderID uuid.UUID, draft ProposalDraft) (*Proposal, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	deliverables := make([]string, len(draft.Deliverables))
	for i, d := range draft.Deliverables {
		deliverables[i] = strings.TrimSpace(d)
	}

	return &Proposal{
		ID:            uuid.New(),
		GigID:         gigID,
		ResponderID:   responderID,
		CreatedBy:     responderID,
		Title:         strings.TrimSpace(draft.Title),
		Description:   strings.TrimSpace(draft.Description),
		ProposedPrice: draft.ProposedPrice,
		TimelineDays:  draft.TimelineDays,
		Deliverables:  deliverables,
		Terms:         draft.Terms,
		ExpiresAt:     draft.ExpiresAt,
		Status:        valueobject.ProposalStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// NewCounterProposal создаёт встречное предложение. Цепочка одноуровневая:
// встречное предложение на встречное не допускается.
func NewCounterProposal(parent *Proposal, authorID uuid.UUID, draft ProposalDraft) (*Proposal, error) {
	if parent == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "встречное предложение требует исходного предложения")
	}
	if parent.IsCounterProposal {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя ответить встречным предложением на встречное")
	}
	if !parent.IsPending() {
		return nil, apperror.ErrProposalNotPending
	}

	p, err := NewProposal(parent.GigID, parent.ResponderID, draft)
	if err != nil {
		return nil, err
	}
	parentID := parent.ID
	p.CreatedBy = authorID
	p.ParentProposalID = &parentID
	p.IsCounterProposal = true
	return p, nil
}

// Accept переводит предложение в accepted. Просроченное предложение принять нельзя,
// отклонить - можно.
func (p *Proposal) Accept() error {
	if p.Status != valueobject.ProposalStatusPending {
		return apperror.ErrProposalNotPending
	}
	now := time.Now()
	if p.IsExpired(now) {
		return apperror.ErrProposalExpired
	}
	p.Status = valueobject.ProposalStatusAccepted
	p.UpdatedAt = now
	return nil
}

func (p *Proposal) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

func (p *Proposal) Reject(reason *string) error {
	if p.Status != valueobject.ProposalStatusPending {
		return apperror.ErrProposalNotPending
	}
	if reason != nil {
		trimmed := strings.TrimSpace(*reason)
		if err := validation.ValidateLength("причина отказа", trimmed, 0, validation.MaxReasonLength); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		if trimmed != "" {
			reason = &trimmed
		} else {
			reason = nil
		}
	}
	p.Status = valueobject.ProposalStatusRejected
	p.RejectionReason = reason
	p.UpdatedAt = time.Now()
	return nil
}

// Recipient возвращает участника, который принимает решение по предложению.
func (p *Proposal) Recipient(gig *Gig) uuid.UUID {
	if p.CreatedBy == gig.AuthorID {
		return p.ResponderID
	}
	return gig.AuthorID
}

func (p *Proposal) IsParticipant(gig *Gig, userID uuid.UUID) bool {
	return p.ResponderID == userID || gig.AuthorID == userID
}

func (p *Proposal) IsPending() bool {
	return p.Status == valueobject.ProposalStatusPending
}

func (p *Proposal) IsAccepted() bool {
	return p.Status == valueobject.ProposalStatusAccepted
}
