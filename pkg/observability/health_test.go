package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ok(context.Context) error { return nil }

func TestHealthRegistry_Check(t *testing.T) {
	t.Run("healthy with no probes", func(t *testing.T) {
		assert.Equal(t, HealthStatusHealthy, NewHealthRegistry().Check(context.Background()).Status)
	})

	t.Run("degraded when broker is down", func(t *testing.T) {
		reg := NewHealthRegistry()
		reg.Register("database", DatabaseHealthChecker(ok))
		reg.Register("rabbitmq", RabbitMQHealthChecker(func(context.Context) error {
			return errors.New("connection refused")
		}))

		health := reg.Check(context.Background())

		assert.Equal(t, HealthStatusDegraded, health.Status)
		assert.Equal(t, HealthStatusHealthy, health.Checks["database"].Status)
		assert.Contains(t, health.Checks["rabbitmq"].Message, "connection refused")
	})

	t.Run("unhealthy wins over degraded", func(t *testing.T) {
		reg := NewHealthRegistry()
		reg.Register("rabbitmq", RabbitMQHealthChecker(func(context.Context) error { return errors.New("down") }))
		reg.Register("filestore", FileStoreHealthChecker(func(context.Context) error { return errors.New("disk full") }))

		health := reg.Check(context.Background())

		assert.Equal(t, HealthStatusUnhealthy, health.Status)
		assert.Equal(t, "filestore connection failed: disk full", health.Checks["filestore"].Message)
	})
}

func TestHealthRegistry_Names(t *testing.T) {
	reg := NewHealthRegistry()
	reg.Register("rabbitmq", RabbitMQHealthChecker(ok))
	reg.Register("database", DatabaseHealthChecker(ok))

	assert.Equal(t, []string{"database", "rabbitmq"}, reg.Names())
}
