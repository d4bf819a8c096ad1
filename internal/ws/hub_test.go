package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func newTestClient(hub *Hub, userID uuid.UUID) *Client {
	return &Client{hub: hub, userID: userID, send: make(chan []byte, 4)}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("сообщение не доставлено")
		return nil
	}
}

func TestHub_SendToUser(t *testing.T) {
	hub, _ := startHub(t)
	userID := uuid.New()
	other := newTestClient(hub, uuid.New())
	client := newTestClient(hub, userID)
	hub.Register(client)
	hub.Register(other)

	require.Eventually(t, func() bool { return hub.Online(userID) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.SendToUser(context.Background(), userID, "response_received", map[string]string{"gig_title": "Лендинг"}))

	var msg struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(receive(t, client), &msg))
	assert.Equal(t, "response_received", msg.Type)
	assert.Equal(t, "Лендинг", msg.Data["gig_title"])
	assert.Empty(t, other.send)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub, _ := startHub(t)
	userID := uuid.New()
	client := newTestClient(hub, userID)
	hub.Register(client)
	hub.Unregister(client)

	require.Eventually(t, func() bool { return hub.Online(userID) == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-client.send
	assert.False(t, ok)
}

func TestHub_StoppedHubRejectsSend(t *testing.T) {
	hub, cancel := startHub(t)
	cancel()
	<-hub.done

	err := hub.SendToUser(context.Background(), uuid.New(), "payment_released", nil)
	assert.Error(t, err)
}
