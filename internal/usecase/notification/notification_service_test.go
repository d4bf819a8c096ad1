package notification_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/event"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/testutil/memstore"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/notification"
)

func saveEvent(t *testing.T, svc *notification.Service, userID uuid.UUID, name event.Name) uuid.UUID {
	t.Helper()
	n, err := svc.Save(context.Background(), event.Event{
		Name:       name,
		OccurredAt: time.Now(),
		Payload: event.Payload{
			UserID:   userID,
			GigID:    uuid.New(),
			GigTitle: "Логотип",
			Extra:    map[string]any{"proposal_id": "p-1"},
		},
	})
	require.NoError(t, err)
	return n.ID
}

func TestService_SaveBuildsPayload(t *testing.T) {
	repo := memstore.NewNotifications()
	svc := notification.NewService(repo)
	userID := uuid.New()

	saveEvent(t, svc, userID, event.ResponseReceived)

	items, err := svc.List(context.Background(), userID, 0, 0, false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, string(event.ResponseReceived), items[0].Event)

	var payload struct {
		Event string         `json:"event"`
		Data  map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(items[0].Payload, &payload))
	assert.Equal(t, "response_received", payload.Event)
	assert.Equal(t, "Логотип", payload.Data["gig_title"])
	assert.Equal(t, "p-1", payload.Data["proposal_id"])
}

func TestService_MarkAsRead(t *testing.T) {
	svc := notification.NewService(memstore.NewNotifications())
	userID := uuid.New()
	id := saveEvent(t, svc, userID, event.ResponseAccepted)
	saveEvent(t, svc, userID, event.CompletionApproved)

	err := svc.MarkAsRead(context.Background(), id, uuid.New())
	assert.True(t, apperror.IsForbidden(err))

	require.NoError(t, svc.MarkAsRead(context.Background(), id, userID))
	count, err := svc.CountUnread(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	unread, err := svc.List(context.Background(), userID, 10, 0, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	require.NoError(t, svc.MarkAllAsRead(context.Background(), userID))
	count, err = svc.CountUnread(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestService_MarkAsReadUnknown(t *testing.T) {
	svc := notification.NewService(memstore.NewNotifications())
	err := svc.MarkAsRead(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}
