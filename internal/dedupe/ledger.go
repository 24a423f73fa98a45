// ABOUTME: Retry ledger suppressing duplicate consultation submissions.
// ABOUTME: Tracks per-caller request ids for a bounded window of time.

package dedupe

import (
	"container/list"
	"sync"
	"time"
)

const sweepInterval = time.Minute

// Ledger remembers which request ids a caller has already had dispatched,
// so a retry inside the window can be rejected instead of consulted twice.
// Entries age out after the window, and the oldest entry is evicted when
// the ledger is full; both paths are O(1) via an insertion-ordered list.
type Ledger struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // element values are *record, oldest at front
	window     time.Duration
	maxEntries int
	stop       chan struct{}
	stopOnce   sync.Once
}

// record is the list payload for one dispatched request id.
type record struct {
	key        string
	dispatched time.Time
}

// NewLedger builds a ledger with the given retry window and capacity, and
// starts a background sweeper that drops aged-out entries.
func NewLedger(window time.Duration, maxEntries int) *Ledger {
	l := &Ledger{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		window:     window,
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
	}
	go l.sweep()
	return l
}

// ledgerKey scopes a request id to its caller, so two callers reusing the
// same id never collide.
func ledgerKey(subject, requestID string) string {
	return subject + "\x00" + requestID
}

// Seen reports whether the caller already had this request id dispatched
// inside the window, and when that dispatch happened.
func (l *Ledger) Seen(subject, requestID string) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	elem, ok := l.entries[ledgerKey(subject, requestID)]
	if !ok {
		return time.Time{}, false
	}
	rec := elem.Value.(*record)
	if time.Since(rec.dispatched) >= l.window {
		l.removeLocked(elem)
		return time.Time{}, false
	}
	return rec.dispatched, true
}

// Record marks a request id as dispatched for the caller. Recording the
// same id again restarts its window.
func (l *Ledger) Record(subject, requestID string) {
	key := ledgerKey(subject, requestID)

	l.mu.Lock()
	defer l.mu.Unlock()

	if elem, ok := l.entries[key]; ok {
		elem.Value.(*record).dispatched = time.Now()
		l.order.MoveToBack(elem)
		return
	}
	if l.order.Len() >= l.maxEntries {
		if oldest := l.order.Front(); oldest != nil {
			l.removeLocked(oldest)
		}
	}
	l.entries[key] = l.order.PushBack(&record{key: key, dispatched: time.Now()})
}

// removeLocked drops an element from both structures. Caller holds l.mu.
func (l *Ledger) removeLocked(elem *list.Element) {
	delete(l.entries, elem.Value.(*record).key)
	l.order.Remove(elem)
}

// sweep ages out expired entries until Close.
func (l *Ledger) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.expire(time.Now())
		case <-l.stop:
			return
		}
	}
}

// expire walks from the oldest entry and stops at the first one still
// inside the window. The list stays ordered by dispatch time because
// Record moves refreshed entries to the back.
func (l *Ledger) expire(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for {
		front := l.order.Front()
		if front == nil {
			return
		}
		if now.Sub(front.Value.(*record).dispatched) < l.window {
			return
		}
		l.removeLocked(front)
	}
}

// Close stops the background sweeper. Safe to call more than once.
func (l *Ledger) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}
