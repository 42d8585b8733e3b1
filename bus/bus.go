// Package bus implements the in-process message bus: queued and immediate
// publish, type-filtered subscription, and a worker bridge that moves
// blocking work off goroutines the caller doesn't control onto a bounded
// pool, rejoining results through the same queue.
package bus

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// SubscriptionId identifies a live subscription returned by Subscribe.
type SubscriptionId string

// Handler processes one delivered message. A panic inside a Handler is
// recovered and logged by the bus; it never propagates to Process.
type Handler func(Message)

type subscription struct {
	id      SubscriptionId
	msgType MessageType
	handler Handler
}

// Stats reports bus-wide counters. It is read and written behind its own
// lock, separate from the subscriber and queue locks, so a Stats reader
// never contends with subscription changes or queue access.
type Stats struct {
	Published uint64
	Delivered uint64
	Dropped   uint64
	Panics    uint64
	Queued    int
}

// Bus is the kernel's in-process publish/subscribe hub. It holds three
// independent locks: subMu guards the subscriber list, queueMu guards the
// pending-message queue, and statsMu guards counters, matching the queuing
// discipline of a frame-driven consumer pumping Process once per frame.
type Bus struct {
	logger *slog.Logger

	subMu sync.RWMutex
	subs  []*subscription

	queueMu sync.Mutex
	queue   []Message

	statsMu sync.Mutex
	stats   Stats
}

// New builds an empty bus.
func New(logger *slog.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe registers handler for messages of msgType, or every message
// when msgType is FilterAll. Handlers run synchronously inside Process, in
// subscription order, on the goroutine that calls Process.
func (b *Bus) Subscribe(msgType MessageType, handler Handler) SubscriptionId {
	id := SubscriptionId(uuid.NewString())
	b.subMu.Lock()
	defer b.subMu.Unlock()
	b.subs = append(b.subs, &subscription{id: id, msgType: msgType, handler: handler})
	return id
}

// SubscribeWorkerResult is a convenience wrapper subscribing handler to
// TypeWorkerResult only, the message the worker bridge publishes when a
// submitted work item completes.
func (b *Bus) SubscribeWorkerResult(handler Handler) SubscriptionId {
	return b.Subscribe(TypeWorkerResult, handler)
}

// Unsubscribe removes a subscription. It is a no-op if id is unknown.
func (b *Bus) Unsubscribe(id SubscriptionId) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish enqueues a message for delivery on the next Process call.
func (b *Bus) Publish(msg Message) {
	b.queueMu.Lock()
	b.queue = append(b.queue, msg)
	n := len(b.queue)
	b.queueMu.Unlock()

	b.statsMu.Lock()
	b.stats.Published++
	b.stats.Queued = n
	b.statsMu.Unlock()
}

// PublishImmediate delivers msg synchronously to every matching subscriber
// on the caller's goroutine, bypassing the queue entirely.
func (b *Bus) PublishImmediate(msg Message) {
	b.statsMu.Lock()
	b.stats.Published++
	b.statsMu.Unlock()
	b.dispatch(msg)
}

// Process drains the queue, dispatching every pending message to its
// matching subscribers in publish order. It must be called from a single
// goroutine per bus; the kernel calls it once per frame.
func (b *Bus) Process() {
	b.queueMu.Lock()
	pending := b.queue
	b.queue = nil
	b.queueMu.Unlock()

	b.statsMu.Lock()
	b.stats.Queued = 0
	b.statsMu.Unlock()

	for _, msg := range pending {
		b.dispatch(msg)
	}
}

func (b *Bus) dispatch(msg Message) {
	b.subMu.RLock()
	matched := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.msgType == FilterAll || s.msgType == msg.Type {
			matched = append(matched, s)
		}
	}
	b.subMu.RUnlock()

	if len(matched) == 0 {
		b.statsMu.Lock()
		b.stats.Dropped++
		b.statsMu.Unlock()
		b.logger.Debug("message dropped, no subscribers", "type", msg.Type)
		return
	}

	for _, s := range matched {
		b.invoke(s, msg)
	}
}

func (b *Bus) invoke(s *subscription, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			b.statsMu.Lock()
			b.stats.Panics++
			b.statsMu.Unlock()
			b.logger.Error("handler panicked", "type", msg.Type, "subscription", s.id, "recovered", r)
		}
	}()
	s.handler(msg)
	b.statsMu.Lock()
	b.stats.Delivered++
	b.statsMu.Unlock()
}

// ClearQueue discards every pending message without dispatching it.
func (b *Bus) ClearQueue() {
	b.queueMu.Lock()
	b.queue = nil
	b.queueMu.Unlock()
	b.statsMu.Lock()
	b.stats.Queued = 0
	b.statsMu.Unlock()
}

// Stats returns a snapshot of the bus's counters. Counters are updated
// after the queue and subscriber locks are released, so a snapshot can
// briefly lag the queue (eventual consistency).
func (b *Bus) Stats() Stats {
	b.statsMu.Lock()
	defer b.statsMu.Unlock()
	return b.stats
}

// ResetStats zeroes every counter except the live queue depth.
func (b *Bus) ResetStats() {
	b.statsMu.Lock()
	defer b.statsMu.Unlock()
	queued := b.stats.Queued
	b.stats = Stats{Queued: queued}
}
