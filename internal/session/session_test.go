package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		id, err := s.Create(ctx, Data{Email: "ops@example.com", Token: "tok"})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "ops@example.com", got.Email)
		assert.Equal(t, "tok", got.Token)
	})

	t.Run("pending keys survive save", func(t *testing.T) {
		id, err := s.Create(ctx, Data{Token: "tok"})
		require.NoError(t, err)

		d, err := s.Get(ctx, id)
		require.NoError(t, err)
		d.SetPending("customer", "c-1")
		require.NoError(t, s.Save(ctx, id, *d))

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		key, ok := got.PendingKey("customer")
		assert.True(t, ok)
		assert.Equal(t, "c-1", key)

		got.ClearPending("customer")
		require.NoError(t, s.Save(ctx, id, *got))
		got, err = s.Get(ctx, id)
		require.NoError(t, err)
		_, ok = got.PendingKey("customer")
		assert.False(t, ok)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		id, err := s.Create(ctx, Data{})
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, id))

		_, err = s.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("claim once", func(t *testing.T) {
		id, err := s.Create(ctx, Data{})
		require.NoError(t, err)
		token := NewSubmitToken()

		ok, err := s.Claim(ctx, id, token)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Claim(ctx, id, token)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = s.Claim(ctx, id, NewSubmitToken())
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStoreExpiry(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	id, err := m.Create(ctx, Data{Token: "tok"})
	require.NoError(t, err)

	now = now.Add(59 * time.Second)
	_, err = m.Get(ctx, id)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = m.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	m := NewMemoryStore(time.Hour)
	ctx := context.Background()

	id, err := m.Create(ctx, Data{Pending: map[string]string{"product": "p-1"}})
	require.NoError(t, err)

	d, err := m.Get(ctx, id)
	require.NoError(t, err)
	d.SetPending("product", "p-2")

	again, err := m.Get(ctx, id)
	require.NoError(t, err)
	key, _ := again.PendingKey("product")
	assert.Equal(t, "p-1", key)
}

func TestDataExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, (&Data{}).Expired(now))
	assert.False(t, (&Data{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&Data{ExpiresAt: now}).Expired(now))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer rdb.Close()

	testStore(t, NewRedisStore(rdb, time.Minute))
}
