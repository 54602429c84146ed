package events

import (
	"context"
	"log"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var (
	emitMu sync.RWMutex
	emitFn = func(ctx context.Context, name string, payload any) {}
)

// Emit delivers payload under name to the configured sink. It is a no-op
// until one of the Enable functions or SetCustomEmitter is called.
func Emit(ctx context.Context, name string, payload any) {
	emitMu.RLock()
	f := emitFn
	emitMu.RUnlock()
	f(ctx, name, withSession(ctx, payload))
}

func setEmitter(f func(ctx context.Context, name string, payload any)) {
	emitMu.Lock()
	emitFn = f
	emitMu.Unlock()
}

// EnableRuntimeEmitter forwards events to the Wails frontend. ctx passed to
// Emit must be derived from the Wails startup context.
func EnableRuntimeEmitter() {
	setEmitter(func(ctx context.Context, name string, payload any) {
		runtime.EventsEmit(ctx, name, payload)
		logRuntimeEvent(ctx, name, payload)
	})
}

// EnablePublisherEmitter forwards events to pub (NATS in headless mode).
func EnablePublisherEmitter(pub Publisher) {
	setEmitter(func(ctx context.Context, name string, payload any) {
		if err := pub.Publish(ctx, name, payload); err != nil {
			log.Printf("events: publish %s: %v", name, err)
		}
	})
}

// SetCustomEmitter installs f as the sink; nil disables emitting.
func SetCustomEmitter(f func(ctx context.Context, name string, payload any)) {
	if f == nil {
		setEmitter(func(context.Context, string, any) {})
		return
	}
	setEmitter(f)
}
