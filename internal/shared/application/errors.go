package application

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrHandlerNotFound is matched by HandlerNotFoundError. It signals a wiring
	// defect and must abort the request.
	ErrHandlerNotFound = errors.New("command handler not found")

	// ErrRegistrySealed is returned when registering after dispatch has started.
	ErrRegistrySealed = errors.New("command registry is sealed")

	// ErrNilCommand is returned when a nil command is dispatched.
	ErrNilCommand = errors.New("command is nil")

	// ErrNilHandler is returned when registering a nil handler.
	ErrNilHandler = errors.New("command handler is nil")

	// ErrInterfaceCommand is returned when registering against an interface
	// type. Dispatch resolves by the concrete type, so such a handler is unreachable.
	ErrInterfaceCommand = errors.New("command type must be concrete")
)

// HandlerNotFoundError reports a command type with no registered handlers.
type HandlerNotFoundError struct {
	CommandType reflect.Type
	CommandName string
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("no handler registered for command %s (%s)", e.CommandName, e.CommandType)
}

// Is matches ErrHandlerNotFound.
func (e *HandlerNotFoundError) Is(target error) bool {
	return target == ErrHandlerNotFound
}
