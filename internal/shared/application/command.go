package application

import (
	"context"
	"errors"
	"fmt"
)

// Command represents a request to change system state.
// The concrete Go type of a command is the key handlers are registered under.
type Command interface {
	CommandName() string
}

// Handler handles a specific command type and reports the outcome as a CommandResult.
// Failures are part of the returned result; handlers do not return errors.
type Handler[C Command] interface {
	Handle(ctx context.Context, cmd C) CommandResult
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc[C Command] func(ctx context.Context, cmd C) CommandResult

// Handle calls f(ctx, cmd).
func (f HandlerFunc[C]) Handle(ctx context.Context, cmd C) CommandResult {
	return f(ctx, cmd)
}

// CommandResult is the outcome of one handler invocation.
type CommandResult struct {
	Success bool
	Message string
	Err     error
}

// Succeeded creates a successful command result with an optional message.
func Succeeded(message string) CommandResult {
	return CommandResult{Success: true, Message: message}
}

// Failed creates a failed command result.
func Failed(message string, err error) CommandResult {
	if message == "" && err != nil {
		message = err.Error()
	}
	return CommandResult{Success: false, Message: message, Err: err}
}

// FailedWith creates a failed result whose message is "<prefix>: <cause>".
func FailedWith(prefix string, err error) CommandResult {
	if err == nil {
		err = errors.New("unknown error")
	}
	return CommandResult{
		Success: false,
		Message: fmt.Sprintf("%s: %s", prefix, err.Error()),
		Err:     err,
	}
}

// HasMessage reports whether the result carries a message.
func (r CommandResult) HasMessage() bool {
	return r.Message != ""
}

// Recover converts a panic inside a handler into a failed result.
// It must be deferred directly by the handler:
//
//	defer application.Recover(&result, "A problem was encountered uploading the file")
func Recover(result *CommandResult, prefix string) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("%v", r)
		}
		*result = FailedWith(prefix, err)
	}
}
