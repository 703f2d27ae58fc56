package application

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/felixgeelhaar/tenantry/pkg/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/felixgeelhaar/tenantry/internal/shared/application"

// CommandProcessor is the contract adapters depend on to dispatch commands.
type CommandProcessor interface {
	Process(ctx context.Context, cmd Command) (CommandResults, error)
}

// Processor dispatches commands to every handler registered for their type and
// aggregates the outcomes. Handlers run synchronously, in registration order, on
// the caller's goroutine. The processor imposes no timeout; callers bound the
// dispatch through ctx.
type Processor struct {
	registry *Registry
	logger   *slog.Logger
	metrics  observability.Metrics
	tracer   trace.Tracer
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the processor logger.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(metrics observability.Metrics) ProcessorOption {
	return func(p *Processor) {
		if metrics != nil {
			p.metrics = metrics
		}
	}
}

// WithTracerProvider sets the tracer provider used for dispatch spans.
func WithTracerProvider(tp trace.TracerProvider) ProcessorOption {
	return func(p *Processor) {
		if tp != nil {
			p.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewProcessor creates a processor over the registry and seals it.
func NewProcessor(registry *Registry, opts ...ProcessorOption) *Processor {
	registry.Seal()
	p := &Processor{
		registry: registry,
		logger:   slog.Default(),
		metrics:  observability.NoopMetrics{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process dispatches cmd to its handlers and returns one result per handler in
// invocation order. A command type with no handlers returns a *HandlerNotFoundError
// and no results.
func (p *Processor) Process(ctx context.Context, cmd Command) (CommandResults, error) {
	if cmd == nil {
		return CommandResults{}, ErrNilCommand
	}

	name := cmd.CommandName()
	handlers := p.registry.resolve(cmd)
	if len(handlers) == 0 {
		err := &HandlerNotFoundError{CommandType: reflect.TypeOf(cmd), CommandName: name}
		p.logger.ErrorContext(ctx, "no handler registered for command",
			"command", name,
			"command_type", fmt.Sprintf("%T", cmd),
		)
		return CommandResults{}, err
	}

	ctx, span := p.tracer.Start(ctx, "command.process "+name,
		trace.WithAttributes(
			attribute.String("command.name", name),
			attribute.Int("command.handlers", len(handlers)),
		),
	)
	defer span.End()

	start := time.Now()
	results := make([]CommandResult, 0, len(handlers))
	for _, h := range handlers {
		results = append(results, p.invoke(ctx, name, h, cmd))
	}
	aggregate := NewCommandResults(results...)

	p.metrics.Counter(observability.MetricCommandsDispatched, 1, observability.T("command", name))
	p.metrics.Timing(observability.MetricCommandDuration, time.Since(start), observability.T("command", name))

	if !aggregate.Success() {
		span.SetStatus(codes.Error, "one or more handlers failed")
	}
	p.logger.DebugContext(ctx, "command processed",
		"command", name,
		"handlers", len(handlers),
		"success", aggregate.Success(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return aggregate, nil
}

func (p *Processor) invoke(ctx context.Context, name string, h registeredHandler, cmd Command) CommandResult {
	ctx, span := p.tracer.Start(ctx, "command.handle "+h.name,
		trace.WithAttributes(
			attribute.String("command.name", name),
			attribute.String("command.handler", h.name),
		),
	)
	defer span.End()

	result := h.handle(ctx, cmd)
	span.SetAttributes(attribute.Bool("command.success", result.Success))
	if !result.Success {
		span.SetStatus(codes.Error, result.Message)
		p.metrics.Counter(observability.MetricCommandHandlerFailures, 1,
			observability.T("command", name),
			observability.T("handler", h.name),
		)
		p.logger.WarnContext(ctx, "command handler failed",
			"command", name,
			"handler", h.name,
			"message", result.Message,
		)
	}
	return result
}

// Dispatch is a typed convenience wrapper around Processor.Process.
func Dispatch[C Command](ctx context.Context, p *Processor, cmd C) (CommandResults, error) {
	return p.Process(ctx, cmd)
}
