package eventbus

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/felixgeelhaar/tenantry/internal/shared/domain"
)

// Subscriber receives events delivered by the in-process bus.
type Subscriber func(ctx context.Context, event domain.Event) error

type subscription struct {
	pattern string
	fn      Subscriber
}

// InProcessBus delivers events synchronously to subscribers in the same
// process. It replaces RabbitMQ in local mode and in tests.
type InProcessBus struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

// NewInProcessBus creates a bus with no subscribers.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{logger: logger}
}

// Subscribe registers fn for routing keys matching pattern. Patterns follow
// AMQP topic rules: "*" matches one word and "#" matches zero or more.
func (b *InProcessBus) Subscribe(pattern string, fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{pattern: pattern, fn: fn})
}

// Publish calls every matching subscriber in subscription order. Subscriber
// errors are logged, not returned, as a broker would not report them either.
func (b *InProcessBus) Publish(ctx context.Context, event domain.Event) error {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		if !MatchTopic(sub.pattern, event.RoutingKey) {
			continue
		}
		delivered++
		if err := sub.fn(ctx, event); err != nil {
			b.logger.ErrorContext(ctx, "subscriber failed",
				"routing_key", event.RoutingKey,
				"pattern", sub.pattern,
				"error", err,
			)
		}
	}

	b.logger.DebugContext(ctx, "event delivered in process",
		"routing_key", event.RoutingKey,
		"subscribers", delivered,
	)
	return nil
}

func (b *InProcessBus) Close() error {
	return nil
}

// MatchTopic reports whether key matches an AMQP topic pattern.
func MatchTopic(pattern, key string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(key, "."))
}

func matchWords(pattern, key []string) bool {
	if len(pattern) == 0 {
		return len(key) == 0
	}
	switch pattern[0] {
	case "#":
		for i := 0; i <= len(key); i++ {
			if matchWords(pattern[1:], key[i:]) {
				return true
			}
		}
		return false
	case "*":
		return len(key) > 0 && matchWords(pattern[1:], key[1:])
	default:
		return len(key) > 0 && pattern[0] == key[0] && matchWords(pattern[1:], key[1:])
	}
}
