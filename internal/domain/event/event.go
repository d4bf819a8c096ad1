package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Name - семантическое имя события для канала уведомлений.
type Name string

const (
	ResponseReceived        Name = "response_received"
	CounterProposalReceived Name = "counter_proposal_received"
	ResponseAccepted        Name = "response_accepted"
	ResponseRejected        Name = "response_rejected"
	CompletionSubmitted     Name = "completion_submitted"
	CompletionApproved      Name = "completion_approved"
	CompletionRejected      Name = "completion_rejected"
	PaymentReleased         Name = "payment_released"
)

// Payload - данные события. UserID - получатель уведомления.
type Payload struct {
	UserID   uuid.UUID      `json:"user_id"`
	GigID    uuid.UUID      `json:"gig_id"`
	GigTitle string         `json:"gig_title"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Event - событие в очереди рассылки.
type Event struct {
	Name       Name      `json:"event"`
	Payload    Payload   `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier принимает события по принципу fire-and-forget: вызывающий не ждёт доставки
// и не получает ошибок.
type Notifier interface {
	Trigger(ctx context.Context, name Name, payload Payload)
}

// Nop ничего не рассылает.
type Nop struct{}

func (Nop) Trigger(context.Context, Name, Payload) {}
