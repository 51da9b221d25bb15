package midi

import (
	"sync"
	"testing"
	"time"
)

type captureSend struct {
	mu   sync.Mutex
	msgs [][3]uint8
	at   []time.Time
}

func (c *captureSend) send(msg [3]uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	c.at = append(c.at, time.Now())
	return nil
}

func (c *captureSend) snapshot() [][3]uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][3]uint8, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func TestImmediateSendBypassesQueue(t *testing.T) {
	c := &captureSend{}
	q := newQueue(c.send)
	defer q.close()

	q.push([3]uint8{NoteOn, 60, 100}, time.Time{})
	q.push([3]uint8{NoteOff, 60, 0}, time.Now().Add(-time.Second))

	if got := len(c.snapshot()); got != 2 {
		t.Fatalf("immediate sends: got %d delivered, want 2", got)
	}
}

func TestFutureMessagesDeliverInTimestampOrder(t *testing.T) {
	c := &captureSend{}
	q := newQueue(c.send)
	defer q.close()

	now := time.Now()
	// Pushed out of order on purpose.
	q.push([3]uint8{NoteOn, 2, 0}, now.Add(40*time.Millisecond))
	q.push([3]uint8{NoteOn, 1, 0}, now.Add(15*time.Millisecond))
	q.push([3]uint8{NoteOn, 3, 0}, now.Add(65*time.Millisecond))

	time.Sleep(150 * time.Millisecond)

	msgs := c.snapshot()
	if len(msgs) != 3 {
		t.Fatalf("delivered: got %d, want 3", len(msgs))
	}
	for i, want := range []uint8{1, 2, 3} {
		if msgs[i][1] != want {
			t.Errorf("delivery %d: got note %d, want %d", i, msgs[i][1], want)
		}
	}
}

func TestFutureMessageNotDeliveredEarly(t *testing.T) {
	c := &captureSend{}
	q := newQueue(c.send)
	defer q.close()

	q.push([3]uint8{NoteOn, 60, 100}, time.Now().Add(60*time.Millisecond))

	time.Sleep(20 * time.Millisecond)
	if got := len(c.snapshot()); got != 0 {
		t.Fatalf("delivered %d messages before their time", got)
	}

	time.Sleep(120 * time.Millisecond)
	if got := len(c.snapshot()); got != 1 {
		t.Fatalf("delivered %d messages after deadline, want 1", got)
	}
}

func TestEqualTimestampsStayFIFO(t *testing.T) {
	c := &captureSend{}
	q := newQueue(c.send)
	defer q.close()

	at := time.Now().Add(30 * time.Millisecond)
	for i := uint8(0); i < 5; i++ {
		q.push([3]uint8{NoteOn, i, 0}, at)
	}

	time.Sleep(100 * time.Millisecond)

	msgs := c.snapshot()
	if len(msgs) != 5 {
		t.Fatalf("delivered: got %d, want 5", len(msgs))
	}
	for i := range msgs {
		if msgs[i][1] != uint8(i) {
			t.Errorf("delivery %d: got note %d, want %d", i, msgs[i][1], i)
		}
	}
}

func TestCloseDropsPending(t *testing.T) {
	c := &captureSend{}
	q := newQueue(c.send)

	q.push([3]uint8{NoteOn, 60, 100}, time.Now().Add(time.Hour))
	q.close() // must not block or deliver

	if got := len(c.snapshot()); got != 0 {
		t.Fatalf("close delivered %d pending messages", got)
	}
}
