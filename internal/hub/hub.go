// Package hub fans placement events out to live websocket subscribers.  A
// new subscriber first receives a snapshot of the whole ledger; afterwards
// it sees one assignment event per successful assign call, in assignment
// order, until it disconnects.  A failed delivery removes only the affected
// subscriber and never disturbs the publisher or the remaining subscribers.
package hub

import (
	"log"
	"sort"
	"sync"

	"github.com/iliyamo/geo-ads-backend/internal/ledger"
	"github.com/iliyamo/geo-ads-backend/internal/model"
)

// Message types sent over the placement stream.
const (
	MessageTypeSnapshot   = "snapshot"
	MessageTypeAssignment = "assignment"
)

// Message is the envelope of every frame on the placement stream.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub tracks the live subscriber set.  Subscribe, Unsubscribe and
// AssignAndPublish all serialize on the hub mutex; the broadcast only
// enqueues into per-subscriber buffers under the lock, the actual network
// writes happen in each subscriber's write pump.  That keeps the
// per-subscriber event order equal to the assign order without ever holding
// the lock across a send.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
	ledger      *ledger.PlacementLedger
}

// New constructs a hub that snapshots the given ledger for new subscribers.
func New(l *ledger.PlacementLedger) *Hub {
	return &Hub{
		subscribers: make(map[*Subscriber]struct{}),
		ledger:      l,
	}
}

// Subscribe adds the subscriber to the live set and queues exactly one
// snapshot message holding the ledger content at subscribe time.  Taking
// the snapshot under the hub lock pins the boundary: assignments published
// after this call are streamed, everything before is in the snapshot.
func (h *Hub) Subscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.subscribers[s] = struct{}{}
	snapshot := h.ledger.ListAll()

	select {
	case s.send <- Message{Type: MessageTypeSnapshot, Data: snapshot}:
	default:
		// Queue already full on the very first frame: give up on this
		// subscriber immediately.
		delete(h.subscribers, s)
		s.closeSend()
		return
	}
	log.Printf("hub: subscriber %s connected (total=%d)", s.id, len(h.subscribers))
}

// Unsubscribe removes the subscriber from the live set.  It is idempotent
// and safe to call from any goroutine, including the write pump teardown.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(s)
}

// dropLocked removes a subscriber while the hub mutex is already held.
func (h *Hub) dropLocked(s *Subscriber) {
	if _, ok := h.subscribers[s]; !ok {
		return
	}
	delete(h.subscribers, s)
	s.closeSend()
	log.Printf("hub: subscriber %s disconnected (total=%d)", s.id, len(h.subscribers))
}

// AssignAndPublish appends a new placement to the ledger and queues the
// matching assignment event, both inside one hub critical section.
// Subscribe takes its snapshot under the same mutex, so any given placement
// lands either in a subscriber's snapshot or in its event stream, never in
// both and never in neither, and concurrent assignments are streamed in
// ledger insertion order.
func (h *Hub) AssignAndPublish(adID uint64, key model.MultiIndexKey) model.Placement {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.ledger.Assign(adID, key)
	h.publishLocked(Message{Type: MessageTypeAssignment, Data: p})
	return p
}

// publishLocked queues one event for every live subscriber while the hub
// mutex is held.  The live set is iterated as a stable, connection-ordered
// copy, so a subscribe or unsubscribe racing with the broadcast can never
// corrupt or skip the iteration.  A subscriber whose queue is full is
// treated as an implicit disconnect; delivery to the others continues.
func (h *Hub) publishLocked(msg Message) {
	live := make([]*Subscriber, 0, len(h.subscribers))
	for s := range h.subscribers {
		live = append(live, s)
	}
	sort.Slice(live, func(i, j int) bool { return live[i].seq < live[j].seq })

	for _, s := range live {
		select {
		case s.send <- msg:
		default:
			log.Printf("hub: subscriber %s too slow, dropping", s.id)
			h.dropLocked(s)
		}
	}
}

// Count reports the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
