package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(8)

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	val, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), val)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	m := NewMemory(8, WithClock(func() time.Time { return now }))

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Hour))

	now = now.Add(30 * time.Minute)
	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(31 * time.Minute)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryZeroTTLNotStored(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(8)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	_, ok, _ := m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryEvictsOldest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	m := NewMemory(3, WithClock(func() time.Time { return now }))

	for i := 0; i < 4; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Hour))
		now = now.Add(time.Second)
	}

	assert.Equal(t, 3, m.Len())
	_, ok, _ := m.Get(ctx, "k0")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok, _ = m.Get(ctx, "k3")
	assert.True(t, ok)
}

func TestMemoryExpiredGetKeepsConcurrentSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	m := NewMemory(8, WithClock(func() time.Time { return now }))

	for i := 0; i < 200; i++ {
		require.NoError(t, m.Set(ctx, "k", []byte("stale"), time.Nanosecond))
		now = now.Add(time.Hour)

		done := make(chan struct{})
		go func() {
			m.Get(ctx, "k")
			close(done)
		}()
		require.NoError(t, m.Set(ctx, "k", []byte("fresh"), 24*time.Hour))
		<-done

		val, ok, err := m.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok, "fresh entry must survive a racing expired Get")
		assert.Equal(t, []byte("fresh"), val)

		require.NoError(t, m.Delete(ctx, "k"))
		now = now.Add(time.Hour)
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(8)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, m.Delete(ctx, "k"))
	_, ok, _ := m.Get(ctx, "k")
	assert.False(t, ok)
}
