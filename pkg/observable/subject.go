package observable

import (
	"sync"
	"sync/atomic"
)

type observer[T any] struct {
	fn     func(T)
	after  uint64 // broadcast values with seq <= after are skipped
	active atomic.Bool
}

type delivery[T any] struct {
	seq    uint64
	value  T
	target *observer[T] // nil means broadcast
}

// Subject is an observer list plus a last-value cache.
// The zero value is ready to use. Safe for concurrent use.
type Subject[T any] struct {
	mu        sync.Mutex
	observers []*observer[T]
	last      T
	hasLast   bool
	seq       uint64
	queue     []delivery[T]
	draining  bool
}

// Publish records v as the latest value and delivers it to every observer.
func (s *Subject[T]) Publish(v T) {
	s.Push(v)
	s.Drain()
}

// Push records v as the latest value and queues it without delivering.
// Producers call Push while holding their own lock and Drain after releasing
// it, so observers can call back into the producer.
func (s *Subject[T]) Push(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.last, s.hasLast = v, true
	s.queue = append(s.queue, delivery[T]{seq: s.seq, value: v})
}

// Drain delivers queued values. If a drain is already in progress (on this or
// another goroutine) it returns immediately and that drain delivers them.
func (s *Subject[T]) Drain() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true

	for len(s.queue) > 0 {
		d := s.queue[0]
		s.queue[0] = delivery[T]{}
		s.queue = s.queue[1:]

		var targets []*observer[T]
		if d.target != nil {
			targets = []*observer[T]{d.target}
		} else {
			targets = make([]*observer[T], 0, len(s.observers))
			for _, o := range s.observers {
				if d.seq > o.after {
					targets = append(targets, o)
				}
			}
		}

		s.mu.Unlock()
		for _, o := range targets {
			if o.active.Load() {
				o.fn(d.value)
			}
		}
		s.mu.Lock()
	}

	s.queue = nil
	s.draining = false
	s.mu.Unlock()
}

// Subscribe registers fn. If a value was published before, fn receives the
// latest one first, then only newer values. The returned function stops
// delivery to fn; it is idempotent.
func (s *Subject[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	o := &observer[T]{fn: fn}
	o.active.Store(true)

	s.mu.Lock()
	o.after = s.seq
	s.observers = append(s.observers, o)
	if s.hasLast {
		s.queue = append(s.queue, delivery[T]{seq: s.seq, value: s.last, target: o})
	}
	s.mu.Unlock()

	s.Drain()

	return func() {
		if !o.active.CompareAndSwap(true, false) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, cur := range s.observers {
			if cur == o {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				break
			}
		}
	}
}

// Value returns the latest published value.
func (s *Subject[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Len returns the number of active observers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}
