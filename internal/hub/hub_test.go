package hub

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/geo-ads-backend/internal/ledger"
	"github.com/iliyamo/geo-ads-backend/internal/model"
)

// fakeConn is an in-memory MessageWriter.  failAfter >= 0 makes every write
// past that count fail, simulating a dead connection.
type fakeConn struct {
	mu        sync.Mutex
	msgs      []Message
	failAfter int
	closed    bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{failAfter: -1}
}

func (f *fakeConn) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter >= 0 && len(f.msgs) >= f.failAfter {
		return errors.New("connection reset")
	}
	msg, ok := v.(Message)
	if !ok {
		return fmt.Errorf("unexpected frame type %T", v)
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.msgs))
	copy(out, f.msgs)
	return out
}

func testKey(screenID string) model.MultiIndexKey {
	return model.MultiIndexKey{ScreenID: screenID, ZoneID: "glassfloor", ScreenType: "glassfloor_tile"}
}

func TestSubscribeSendsSnapshotOfLedger(t *testing.T) {
	l := ledger.New()
	l.Assign(1, testKey("GF-0-0"))
	l.Assign(2, testKey("GF-0-1"))
	h := New(l)

	conn := newFakeConn()
	sub := NewSubscriber(conn)
	h.Subscribe(sub)
	go sub.WritePump(h)

	require.Eventually(t, func() bool { return len(conn.messages()) == 1 }, time.Second, 5*time.Millisecond)

	msgs := conn.messages()
	assert.Equal(t, MessageTypeSnapshot, msgs[0].Type)
	snapshot, ok := msgs[0].Data.([]model.Placement)
	require.True(t, ok)
	require.Len(t, snapshot, 2)
	assert.Equal(t, uint64(1), snapshot[0].AdID)
	assert.Equal(t, uint64(2), snapshot[1].AdID)
}

func TestSubscriberReceivesAssignmentsInOrder(t *testing.T) {
	l := ledger.New()
	h := New(l)

	conn := newFakeConn()
	sub := NewSubscriber(conn)
	h.Subscribe(sub)
	go sub.WritePump(h)

	const k = 5
	for i := 0; i < k; i++ {
		h.AssignAndPublish(uint64(i), testKey(fmt.Sprintf("GF-0-%d", i)))
	}

	require.Eventually(t, func() bool { return len(conn.messages()) == 1+k }, time.Second, 5*time.Millisecond)

	msgs := conn.messages()
	assert.Equal(t, MessageTypeSnapshot, msgs[0].Type)
	snapshot, ok := msgs[0].Data.([]model.Placement)
	require.True(t, ok)
	assert.Empty(t, snapshot) // connected before any assignment

	for i, msg := range msgs[1:] {
		assert.Equal(t, MessageTypeAssignment, msg.Type)
		p, ok := msg.Data.(model.Placement)
		require.True(t, ok)
		assert.Equal(t, uint64(i), p.AdID) // exact assign order, no gaps
	}
}

func TestFailedSendRemovesOnlyThatSubscriber(t *testing.T) {
	l := ledger.New()
	h := New(l)

	healthy := newFakeConn()
	dying := newFakeConn()
	dying.failAfter = 1 // snapshot succeeds, first assignment write fails

	subHealthy := NewSubscriber(healthy)
	subDying := NewSubscriber(dying)
	h.Subscribe(subHealthy)
	h.Subscribe(subDying)
	go subHealthy.WritePump(h)
	go subDying.WritePump(h)

	h.AssignAndPublish(1, testKey("GF-0-0"))

	// The dying subscriber is torn down by its own write pump.
	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 5*time.Millisecond)

	// The healthy one keeps receiving.
	h.AssignAndPublish(2, testKey("GF-0-1"))
	require.Eventually(t, func() bool { return len(healthy.messages()) == 3 }, time.Second, 5*time.Millisecond)

	msgs := healthy.messages()
	assert.Equal(t, MessageTypeSnapshot, msgs[0].Type)
	assert.Equal(t, MessageTypeAssignment, msgs[1].Type)
	assert.Equal(t, MessageTypeAssignment, msgs[2].Type)
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	l := ledger.New()
	h := New(l)

	// No write pump: the send queue only fills up.
	sub := NewSubscriber(newFakeConn())
	h.Subscribe(sub)

	for i := 0; i < sendBuffer+10; i++ {
		h.AssignAndPublish(uint64(i), testKey("GF-0-0"))
	}
	assert.Equal(t, 0, h.Count())
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	h := New(ledger.New())
	sub := NewSubscriber(newFakeConn())
	h.Subscribe(sub)

	h.Unsubscribe(sub)
	h.Unsubscribe(sub) // second call is a no-op
	assert.Equal(t, 0, h.Count())

	// Assigning with no subscribers left is fine.
	h.AssignAndPublish(1, testKey("GF-0-0"))
}

func TestConcurrentSubscribeAssignUnsubscribe(t *testing.T) {
	h := New(ledger.New())

	var wg sync.WaitGroup
	for w := 0; w < 10; w++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := NewSubscriber(newFakeConn())
			h.Subscribe(sub)
			go sub.WritePump(h)
			time.Sleep(time.Millisecond)
			h.Unsubscribe(sub)
		}()
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				h.AssignAndPublish(uint64(w*100+i), testKey("GF-0-0"))
			}
		}(w)
	}
	wg.Wait()

	require.Eventually(t, func() bool { return h.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestAssignLandsInSnapshotOrStreamNeverBoth(t *testing.T) {
	l := ledger.New()
	h := New(l)
	h.AssignAndPublish(1, testKey("GF-0-0"))

	conn := newFakeConn()
	sub := NewSubscriber(conn)
	h.Subscribe(sub)
	go sub.WritePump(h)

	h.AssignAndPublish(2, testKey("GF-0-1"))

	require.Eventually(t, func() bool { return len(conn.messages()) == 2 }, time.Second, 5*time.Millisecond)

	msgs := conn.messages()
	require.Equal(t, MessageTypeSnapshot, msgs[0].Type)
	snapshot, ok := msgs[0].Data.([]model.Placement)
	require.True(t, ok)
	require.Len(t, snapshot, 1)
	assert.Equal(t, uint64(1), snapshot[0].AdID)

	require.Equal(t, MessageTypeAssignment, msgs[1].Type)
	event, ok := msgs[1].Data.(model.Placement)
	require.True(t, ok)
	assert.Equal(t, uint64(2), event.AdID)
}

func TestSnapshotBoundaryUnderConcurrentAssigns(t *testing.T) {
	const workers = 4
	const perWorker = 50

	l := ledger.New()
	h := New(l)

	// Assignments run while subscribers keep joining: every subscriber must
	// end up with snapshot + stream equal to the full ledger sequence, each
	// placement delivered exactly once.
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				h.AssignAndPublish(uint64(w*perWorker+i), testKey("GF-0-0"))
			}
		}(w)
	}

	conns := make([]*fakeConn, 0, 5)
	for i := 0; i < 5; i++ {
		conn := newFakeConn()
		sub := NewSubscriber(conn)
		h.Subscribe(sub)
		go sub.WritePump(h)
		conns = append(conns, conn)
		time.Sleep(time.Millisecond)
	}
	wg.Wait()

	final := l.ListAll()
	require.Len(t, final, workers*perWorker)

	for _, conn := range conns {
		received := func() int {
			msgs := conn.messages()
			if len(msgs) == 0 {
				return 0
			}
			snapshot, _ := msgs[0].Data.([]model.Placement)
			return len(snapshot) + len(msgs) - 1
		}
		require.Eventually(t, func() bool { return received() == len(final) }, time.Second, 5*time.Millisecond)

		msgs := conn.messages()
		require.Equal(t, MessageTypeSnapshot, msgs[0].Type)
		snapshot, ok := msgs[0].Data.([]model.Placement)
		require.True(t, ok)

		got := make([]uint64, 0, len(final))
		for _, p := range snapshot {
			got = append(got, p.AdID)
		}
		for _, m := range msgs[1:] {
			require.Equal(t, MessageTypeAssignment, m.Type)
			p, ok := m.Data.(model.Placement)
			require.True(t, ok)
			got = append(got, p.AdID)
		}

		// Snapshot is a prefix of the ledger sequence and the stream is the
		// rest: no duplicates, no gaps, no reordering.
		require.Len(t, got, len(final))
		for i, p := range final {
			assert.Equal(t, p.AdID, got[i])
		}
	}
}
