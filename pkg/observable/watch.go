package observable

import (
	"context"
	"sync"
)

// Source is anything values can be subscribed to.
type Source[T any] interface {
	Subscribe(fn func(T)) (unsubscribe func())
}

// Watch adapts a Source to a channel. The channel starts with the replayed
// latest value and is closed when ctx is done. When the consumer falls behind
// by more than buffer values, the oldest pending value is dropped so the
// channel always converges on the latest one.
func Watch[T any](ctx context.Context, src Source[T], buffer int) <-chan T {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan T, buffer)

	var mu sync.Mutex
	closed := false

	unsubscribe := src.Subscribe(func(v T) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		for {
			select {
			case ch <- v:
				return
			default:
			}
			// Full: drop the oldest pending value and retry.
			select {
			case <-ch:
			default:
			}
		}
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()

	return ch
}
