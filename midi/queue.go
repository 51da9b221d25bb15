package midi

import (
	"container/heap"
	"sync"
	"time"

	"noisesphere/debug"
)

// planned is a message waiting for its delivery time.
type planned struct {
	at  time.Time
	seq uint64 // insertion order, breaks ties so equal timestamps stay FIFO
	msg [3]uint8
}

type plannedHeap []planned

func (h plannedHeap) Len() int { return len(h) }
func (h plannedHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h plannedHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *plannedHeap) Push(x any)        { *h = append(*h, x.(planned)) }
func (h *plannedHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// queue delivers messages to an underlying send function at their planned
// wall-clock times. One goroutine waits on the earliest entry; pushes that
// change the head wake it early.
type queue struct {
	send func([3]uint8) error

	mu      sync.Mutex
	pending plannedHeap
	nextSeq uint64

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newQueue(send func([3]uint8) error) *queue {
	q := &queue{
		send: send,
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

// push schedules msg for delivery at `at`. Immediate sends bypass the heap.
func (q *queue) push(msg [3]uint8, at time.Time) error {
	if at.IsZero() || !at.After(time.Now()) {
		return q.send(msg)
	}
	q.mu.Lock()
	heap.Push(&q.pending, planned{at: at, seq: q.nextSeq, msg: msg})
	q.nextSeq++
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

func (q *queue) close() {
	q.once.Do(func() { close(q.stop) })
	<-q.done
}

func (q *queue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		hasNext := len(q.pending) > 0
		var wait time.Duration
		if hasNext {
			wait = time.Until(q.pending[0].at)
		}
		q.mu.Unlock()

		if !hasNext {
			// Nothing queued; sleep until pushed or closed.
			select {
			case <-q.stop:
				return
			case <-q.wake:
			}
			continue
		}
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-q.stop:
			timer.Stop()
			return
		case <-q.wake:
			// Head may have changed; recalculate.
			timer.Stop()
			continue
		case <-timer.C:
		}

		q.flushDue(time.Now())
	}
}

// flushDue sends every message whose time has arrived, in heap order.
func (q *queue) flushDue(now time.Time) {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 || q.pending[0].at.After(now) {
			q.mu.Unlock()
			return
		}
		p := heap.Pop(&q.pending).(planned)
		q.mu.Unlock()

		if err := q.send(p.msg); err != nil {
			debug.Log("midi", "send failed: %v", err)
		}
	}
}
