// Package scheduler provides the in-process notification scheduler: a
// heap-ordered timer loop that hands out opaque handles and delivers due
// notifications on a channel. Delivery is best-effort; the app's stores
// remain the source of truth for what the user sees.
package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var ErrStopped = errors.New("scheduler: engine stopped")

// Delivery is emitted when a scheduled notification fires.
type Delivery struct {
	ID     string
	Title  string
	Body   string
	FireAt time.Time
}

type queueItem struct {
	delivery Delivery
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].delivery.FireAt.Before(pq[j].delivery.FireAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

type Engine struct {
	mu        sync.Mutex
	queue     priorityQueue
	cancelled map[string]struct{}
	out       chan Delivery
	wakeup    chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	stopped   bool
	dropped   uint64
	now       func() time.Time
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:     make(priorityQueue, 0),
		cancelled: make(map[string]struct{}),
		out:       make(chan Delivery, bufferSize),
		wakeup:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine) C() <-chan Delivery {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues a one-shot notification and returns its handle. A fire
// time that is not strictly in the future yields an empty handle and no
// error: past events are never scheduled, and the caller proceeds without
// a reminder.
func (e *Engine) Schedule(_ context.Context, title, body string, fireAt time.Time) (string, error) {
	if !fireAt.After(e.now()) {
		return "", nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return "", ErrStopped
	}

	id := uuid.NewString()
	heap.Push(&e.queue, queueItem{delivery: Delivery{
		ID:     id,
		Title:  title,
		Body:   body,
		FireAt: fireAt,
	}})
	e.signalWakeup()
	return id, nil
}

// Cancel withdraws a pending handle. Unknown or already-fired handles
// are no-ops.
func (e *Engine) Cancel(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	e.cancelled[id] = struct{}{}
	return nil
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(e.now())
			for _, d := range due {
				select {
				case e.out <- d:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Delivery, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Delivery{}, false
	}
	return e.queue[0].delivery, true
}

func (e *Engine) popDue(now time.Time) []Delivery {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Delivery, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].delivery
		if next.FireAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		if _, withdrawn := e.cancelled[item.delivery.ID]; withdrawn {
			delete(e.cancelled, item.delivery.ID)
			continue
		}
		out = append(out, item.delivery)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
