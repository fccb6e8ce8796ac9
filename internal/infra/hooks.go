package infra

import (
	"github.com/pomokit/pomo/internal/domain"
)

// HookBus is the in-process edge of the external shell-hook mechanism.
// The shell integration invokes the hidden `pomo hook` command on
// every directory change; that command constructs a HookBus, lets the
// enforcement engine register against it, and dispatches the single
// event. Registration is idempotent by handler identity being
// irrelevant: handlers keep no in-memory state between deliveries.
type HookBus struct {
	handlers map[string][]func(oldDir, newDir string)
}

// NewHookBus creates an empty dispatcher.
func NewHookBus() *HookBus {
	return &HookBus{handlers: make(map[string][]func(string, string))}
}

// Register subscribes a callback to an event.
func (b *HookBus) Register(event string, fn func(oldDir, newDir string)) error {
	b.handlers[event] = append(b.handlers[event], fn)
	return nil
}

// Dispatch delivers one event to every subscriber.
func (b *HookBus) Dispatch(event, oldDir, newDir string) {
	for _, fn := range b.handlers[event] {
		fn(oldDir, newDir)
	}
}

var _ domain.HookDispatcher = (*HookBus)(nil)
