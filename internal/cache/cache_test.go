package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetNX(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	t.Run("first set wins, second is suppressed", func(t *testing.T) {
		fresh, err := m.SetNX(ctx, "start:1", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = m.SetNX(ctx, "start:1", time.Minute)
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("different keys are independent", func(t *testing.T) {
		fresh, err := m.SetNX(ctx, "start:2", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("expired key can be set again", func(t *testing.T) {
		fresh, err := m.SetNX(ctx, "start:3", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, fresh)

		time.Sleep(20 * time.Millisecond)

		fresh, err = m.SetNX(ctx, "start:3", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)
	})
}
