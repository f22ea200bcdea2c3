package notify

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Subscription is one connected listener on the event stream. Staff
// subscriptions see every staff event; every subscription sees the player
// events addressed to its own name.
type Subscription struct {
	ID    uuid.UUID
	Name  string
	Staff bool
	C     chan Event
}

// Hub is the in-process sink serving the HTTP event stream. It routes staff
// events to admin subscribers and player events to the named author, dropping
// events for slow consumers rather than blocking the dispatcher.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]*Subscription
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]*Subscription)}
}

// Subscribe registers a listener. Staff flag comes from the caller's already
// verified permission set.
func (h *Hub) Subscribe(name string, staff bool) *Subscription {
	sub := &Subscription{
		ID:    uuid.New(),
		Name:  name,
		Staff: staff,
		C:     make(chan Event, 16),
	}
	h.mu.Lock()
	h.subs[sub.ID] = sub
	h.mu.Unlock()
	return sub
}

func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.C)
	}
	h.mu.Unlock()
}

func (h *Hub) Deliver(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if !wants(sub, ev) {
			continue
		}
		select {
		case sub.C <- ev:
		default:
			// slow consumer, drop
		}
	}
}

func (h *Hub) Refresh() {
	h.Deliver(Event{Kind: "refresh"})
}

func wants(sub *Subscription, ev Event) bool {
	switch ev.Kind {
	case KindStaffNew, KindStaffAnswer, KindStaffClose, "refresh":
		return sub.Staff
	case KindPlayerAnswer, KindPlayerClose:
		return strings.EqualFold(sub.Name, ev.Author)
	}
	return false
}
