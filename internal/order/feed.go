package order

import (
	"log"
	"sort"
	"sync"

	"grubz/models"
)

// EventKind mirrors the change kinds a document-store subscription delivers.
type EventKind string

const (
	EventAdded    EventKind = "added"
	EventModified EventKind = "modified"
	EventRemoved  EventKind = "removed"
)

// Event is one immutable change to an order.
type Event struct {
	Kind  EventKind    `json:"kind"`
	Order models.Order `json:"order"`
}

// Reduce folds one event into a snapshot of orders, returning a new slice
// sorted by creation time descending (id descending as tiebreak). The input
// snapshot is never mutated, so independent subscribers can fold the same
// event stream without sharing state.
func Reduce(snapshot []models.Order, evt Event) []models.Order {
	out := make([]models.Order, 0, len(snapshot)+1)
	replaced := false
	for _, o := range snapshot {
		if o.ID == evt.Order.ID {
			switch evt.Kind {
			case EventRemoved:
				continue
			default:
				out = append(out, evt.Order)
				replaced = true
				continue
			}
		}
		out = append(out, o)
	}
	if !replaced && evt.Kind != EventRemoved {
		out = append(out, evt.Order)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ScopeKind selects which slice of the order stream a subscriber sees.
type ScopeKind string

const (
	ScopeCustomer   ScopeKind = "customer"
	ScopeRestaurant ScopeKind = "restaurant"
	ScopeDriver     ScopeKind = "driver"
	// ScopeAvailable is the cross-cutting "available work" view for drivers:
	// ready for pickup and unassigned.
	ScopeAvailable ScopeKind = "available"
	// ScopeAll sees every order. Admin dashboards only.
	ScopeAll ScopeKind = "all"
)

// Scope filters events by party. ID is ignored for ScopeAvailable.
type Scope struct {
	Kind ScopeKind
	ID   int64
}

func (s Scope) matches(o *models.Order) bool {
	switch s.Kind {
	case ScopeCustomer:
		return o.CustomerID == s.ID
	case ScopeRestaurant:
		return o.RestaurantID == s.ID
	case ScopeDriver:
		return o.DriverID != nil && *o.DriverID == s.ID
	case ScopeAvailable:
		return o.Status == models.OrderStatusReadyForPickup && o.DriverID == nil
	case ScopeAll:
		return true
	}
	return false
}

type subscriber struct {
	scope Scope
	ch    chan Event
}

// Hub fans order events out to scoped subscribers. It is the in-process
// replacement for the managed store's live subscriptions. Delivery order
// between independent subscribers is not guaranteed, and a subscriber that
// stops draining its channel is dropped rather than blocking the writers.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a scoped live view. The returned cancel func must be
// called when the consumer goes away; there is no automatic resubscription.
func (h *Hub) Subscribe(scope Scope) (<-chan Event, func()) {
	sub := &subscriber{scope: scope, ch: make(chan Event, 64)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[sub]; ok {
			delete(h.subs, sub)
			close(sub.ch)
		}
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish delivers an event to every subscriber whose scope matches. For the
// available-work scope, a modification that takes an order out of the
// available set is translated to a removal so subscriber snapshots converge
// without client-side filtering.
func (h *Hub) Publish(evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		e := evt
		if !sub.scope.matches(&evt.Order) {
			if sub.scope.Kind == ScopeAvailable && evt.Kind == EventModified {
				e.Kind = EventRemoved
			} else {
				continue
			}
		}
		select {
		case sub.ch <- e:
		default:
			log.Printf("order feed: dropping slow subscriber scope=%s id=%d", sub.scope.Kind, sub.scope.ID)
			delete(h.subs, sub)
			close(sub.ch)
		}
	}
}
