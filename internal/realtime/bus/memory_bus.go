package bus

import (
	"context"
	"sync"

	"github.com/yungbote/coursebridge-backend/internal/realtime"
)

// memoryHistory bounds how many published events MemoryBus retains.
const memoryHistory = 1024

// MemoryBus delivers events in-process. It backs single-node deployments
// without redis and doubles as a recorder in tests.
type MemoryBus struct {
	mu        sync.Mutex
	published []realtime.Event
	handlers  []func(realtime.Event)
	closed    bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

func (b *MemoryBus) Publish(ctx context.Context, ev realtime.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.published = append(b.published, ev)
	if len(b.published) > memoryHistory {
		b.published = append(b.published[:0], b.published[len(b.published)-memoryHistory:]...)
	}
	handlers := append([]func(realtime.Event){}, b.handlers...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
	return nil
}

func (b *MemoryBus) StartForwarder(_ context.Context, onEvent func(ev realtime.Event)) error {
	if onEvent == nil {
		return nil
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, onEvent)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.handlers = nil
	b.mu.Unlock()
	return nil
}

// Events returns a copy of the most recently published events, oldest first.
func (b *MemoryBus) Events() []realtime.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]realtime.Event(nil), b.published...)
}
