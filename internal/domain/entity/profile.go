package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
)

// Profile - данные пользователя, которые ведёт внешний провайдер учётных записей.
type Profile struct {
	UserID   uuid.UUID
	FullName string
	Email    string
	Phone    *string
	PlanTier string
	UserType valueobject.UserType
}

// ContactInfo - контакты владельца заказа, открываемые после раскрытия.
type ContactInfo struct {
	Name  string
	Email string
	Phone *string
}

func (p *Profile) ContactInfo() *ContactInfo {
	return &ContactInfo{
		Name:  p.FullName,
		Email: p.Email,
		Phone: p.Phone,
	}
}

// ContactUnlock фиксирует, что пользователь открыл контакты по заказу.
// Не более одной записи на пару (пользователь, заказ).
type ContactUnlock struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	GigID     uuid.UUID
	CreatedAt time.Time
}

func NewContactUnlock(userID, gigID uuid.UUID) *ContactUnlock {
	return &ContactUnlock{
		ID:        uuid.New(),
		UserID:    userID,
		GigID:     gigID,
		CreatedAt: time.Now(),
	}
}
