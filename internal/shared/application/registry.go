package application

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"
)

// registeredHandler is a type-erased handler bound to one command type.
type registeredHandler struct {
	name   string
	handle func(ctx context.Context, cmd Command) CommandResult
}

// Registry maps command types to their handlers in registration order.
// It is populated at startup and sealed before the first dispatch; after sealing
// it is read-only and safe for concurrent use without locking.
type Registry struct {
	handlers map[reflect.Type][]registeredHandler
	sealed   atomic.Bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[reflect.Type][]registeredHandler),
	}
}

// Register appends a handler for command type C.
// Registration is not safe for concurrent use and fails once the registry is sealed.
func Register[C Command](r *Registry, handler Handler[C]) error {
	if handler == nil {
		return ErrNilHandler
	}
	if r.sealed.Load() {
		return ErrRegistrySealed
	}

	cmdType := reflect.TypeFor[C]()
	if cmdType.Kind() == reflect.Interface {
		return fmt.Errorf("%w: %s", ErrInterfaceCommand, cmdType)
	}
	r.handlers[cmdType] = append(r.handlers[cmdType], registeredHandler{
		name: handlerName(handler),
		handle: func(ctx context.Context, cmd Command) CommandResult {
			return handler.Handle(ctx, cmd.(C))
		},
	})
	return nil
}

// MustRegister is like Register but panics on error. Intended for startup wiring.
func MustRegister[C Command](r *Registry, handler Handler[C]) {
	if err := Register(r, handler); err != nil {
		panic(fmt.Sprintf("register handler for %s: %v", reflect.TypeFor[C](), err))
	}
}

// Seal freezes the registry. Sealing twice is a no-op.
func (r *Registry) Seal() {
	r.sealed.Store(true)
}

// Sealed reports whether the registry has been sealed.
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// HandlerCount returns the number of handlers registered for the command's type.
func (r *Registry) HandlerCount(cmd Command) int {
	if cmd == nil {
		return 0
	}
	return len(r.handlers[reflect.TypeOf(cmd)])
}

// HandlerNames returns the handler names registered for the command's type, in order.
func (r *Registry) HandlerNames(cmd Command) []string {
	if cmd == nil {
		return nil
	}
	handlers := r.handlers[reflect.TypeOf(cmd)]
	names := make([]string, len(handlers))
	for i, h := range handlers {
		names[i] = h.name
	}
	return names
}

// CommandTypes returns every command type with at least one handler.
func (r *Registry) CommandTypes() []reflect.Type {
	types := make([]reflect.Type, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	return types
}

// resolve returns the handlers for the command's type in registration order.
func (r *Registry) resolve(cmd Command) []registeredHandler {
	return r.handlers[reflect.TypeOf(cmd)]
}

func handlerName(handler any) string {
	t := reflect.TypeOf(handler)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}
