package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedHandler struct {
	name string
}

func (h namedHandler) Handle(context.Context, greetCommand) CommandResult {
	return Succeeded(h.name)
}

func TestRegister(t *testing.T) {
	t.Run("preserves registration order", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, Register[greetCommand](reg, namedHandler{name: "A"}))
		require.NoError(t, Register[greetCommand](reg, namedHandler{name: "B"}))
		require.NoError(t, Register[greetCommand](reg, namedHandler{name: "C"}))

		for i := 0; i < 10; i++ {
			handlers := reg.resolve(greetCommand{})
			require.Len(t, handlers, 3)
			for j, want := range []string{"A", "B", "C"} {
				assert.Equal(t, want, handlers[j].handle(context.Background(), greetCommand{}).Message)
			}
		}
	})

	t.Run("keys by concrete command type", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, Register[greetCommand](reg, namedHandler{name: "A"}))

		assert.Equal(t, 1, reg.HandlerCount(greetCommand{}))
		assert.Equal(t, 0, reg.HandlerCount(farewellCommand{}))
		assert.Equal(t, 0, reg.HandlerCount(nil))
		assert.Len(t, reg.CommandTypes(), 1)
	})

	t.Run("rejects nil handler", func(t *testing.T) {
		reg := NewRegistry()
		err := Register[greetCommand](reg, nil)
		assert.ErrorIs(t, err, ErrNilHandler)
	})

	t.Run("rejects interface command types", func(t *testing.T) {
		reg := NewRegistry()
		handler := HandlerFunc[Command](func(context.Context, Command) CommandResult {
			return Succeeded("")
		})

		err := Register[Command](reg, handler)

		assert.ErrorIs(t, err, ErrInterfaceCommand)
		assert.Empty(t, reg.CommandTypes())
		assert.Panics(t, func() { MustRegister[Command](reg, handler) })
	})

	t.Run("rejects registration after seal", func(t *testing.T) {
		reg := NewRegistry()
		reg.Seal()

		err := Register[greetCommand](reg, namedHandler{name: "late"})

		assert.ErrorIs(t, err, ErrRegistrySealed)
		assert.True(t, reg.Sealed())
		assert.Equal(t, 0, reg.HandlerCount(greetCommand{}))
	})
}

func TestMustRegister(t *testing.T) {
	reg := NewRegistry()
	assert.NotPanics(t, func() { MustRegister[greetCommand](reg, namedHandler{name: "A"}) })

	reg.Seal()
	assert.Panics(t, func() { MustRegister[greetCommand](reg, namedHandler{name: "B"}) })
}

func TestRegistry_HandlerNames(t *testing.T) {
	reg := NewRegistry()
	MustRegister[greetCommand](reg, namedHandler{name: "A"})
	MustRegister[greetCommand](reg, &recordingHandler{})

	assert.Equal(t, []string{"namedHandler", "recordingHandler"}, reg.HandlerNames(greetCommand{}))
	assert.Nil(t, reg.HandlerNames(nil))
}
