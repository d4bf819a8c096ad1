package memstore

import (
	"context"
	"sync"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/event"
)

// Notifier записывает события синхронно, чтобы тесты могли их проверить.
type Notifier struct {
	mu     sync.Mutex
	events []event.Event
}

func (n *Notifier) Trigger(_ context.Context, name event.Name, payload event.Payload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event.Event{Name: name, Payload: payload})
}

func (n *Notifier) Events() []event.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]event.Event, len(n.events))
	copy(out, n.events)
	return out
}

// Last возвращает последнее событие с указанным именем.
func (n *Notifier) Last(name event.Name) (event.Event, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.events) - 1; i >= 0; i-- {
		if n.events[i].Name == name {
			return n.events[i], true
		}
	}
	return event.Event{}, false
}
