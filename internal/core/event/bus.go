package event

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Bus is a double-buffered typed event bus. Events emitted during frame N are
// dispatched at the start of frame N+1, after Swap. Emit and Dispatch run on
// the loop goroutine only; the mutex guards handler registration, which may
// happen during startup wiring.
//
// A panicking handler is contained and logged; the remaining handlers for the
// event still run. The fault watchdog subscribes here, so a broken observer
// must never take the delivery pass down with it.
type Bus struct {
	log      *zap.Logger
	mu       sync.Mutex
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]any
}

func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		log:      log,
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

// Emit queues an event into the back buffer, readable next frame.
func Emit[T any](b *Bus, ev T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.back[t] = append(b.back[t], ev)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Swap rotates back to front and clears the new back buffer. Called once at
// frame start, before Dispatch.
func (b *Bus) Swap() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// Dispatch delivers every front-buffer event to its subscribed handlers.
func (b *Bus) Dispatch() {
	for t, events := range b.front {
		handlers := b.handlers[t]
		for _, ev := range events {
			for _, h := range handlers {
				b.deliver(h, ev)
			}
		}
	}
}

func (b *Bus) deliver(handler, ev any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler fault",
				zap.String("event", fmt.Sprintf("%T", ev)),
				zap.Any("panic", r))
		}
	}()
	// Safe: Subscribe and Emit key on the same type.
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(ev)})
}
