package hub

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Write timeout applied to every outbound frame.  A subscriber that cannot
// accept a frame within this window is treated as disconnected.
const writeWait = 10 * time.Second

// sendBuffer is the per-subscriber queue depth.  A subscriber that falls
// this far behind the assignment stream is dropped rather than allowed to
// stall the hub.
const sendBuffer = 256

// subscriberSeq orders subscribers by connection time.  Broadcast iterates a
// sorted copy of the live set, so delivery order is stable rather than
// subject to map iteration.
var subscriberSeq atomic.Uint64

// MessageWriter is the transport a subscriber writes to.  *websocket.Conn
// satisfies it; tests substitute an in-memory implementation.
type MessageWriter interface {
	WriteJSON(v any) error
	Close() error
}

// Subscriber is one live streaming connection.  It owns a buffered send
// queue drained by a single writer goroutine, so enqueueing under the hub
// lock never blocks on the network.  Lifetime ends on explicit disconnect
// or the first failed write; both paths run the unsubscribe step exactly
// once.
type Subscriber struct {
	id   string
	seq  uint64
	conn MessageWriter
	send chan Message

	closeOnce sync.Once
}

// NewSubscriber wraps a connection into a subscriber with a fresh identity.
func NewSubscriber(conn MessageWriter) *Subscriber {
	return &Subscriber{
		id:   uuid.NewString(),
		seq:  subscriberSeq.Add(1),
		conn: conn,
		send: make(chan Message, sendBuffer),
	}
}

// ID returns the subscriber's unique identifier, used in logs.
func (s *Subscriber) ID() string {
	return s.id
}

// WritePump drains the send queue to the connection until the queue is
// closed or a write fails.  It must run in its own goroutine; on exit it
// deregisters the subscriber from the hub and closes the connection, so
// teardown fires on every exit path.
func (s *Subscriber) WritePump(h *Hub) {
	defer func() {
		h.Unsubscribe(s)
		_ = s.conn.Close()
	}()

	for msg := range s.send {
		if d, ok := s.conn.(interface{ SetWriteDeadline(time.Time) error }); ok {
			_ = d.SetWriteDeadline(time.Now().Add(writeWait))
		}
		if err := s.conn.WriteJSON(msg); err != nil {
			log.Printf("hub: write to subscriber %s failed: %v", s.id, err)
			return
		}
	}
}

// closeSend closes the send queue exactly once, waking the write pump.
func (s *Subscriber) closeSend() {
	s.closeOnce.Do(func() { close(s.send) })
}
