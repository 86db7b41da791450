package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewStore(client)
}

func TestAside_MissThenHit(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (*profile, error) {
		calls++
		return &profile{ID: 1, Name: "alice"}, nil
	}

	got, err := Aside(ctx, store, UserKey(1), UserTTL, fetch)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("user:1"))

	got, err = Aside(ctx, store, UserKey(1), UserTTL, fetch)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, 1, calls, "second read should be served from cache")

	store.InvalidateUser(ctx, 1)
	assert.False(t, mr.Exists("user:1"))
}

func TestAside_NilResultNotCached(t *testing.T) {
	mr, store := newStore(t)

	got, err := Aside(context.Background(), store, UserKey(9), UserTTL, func() (*profile, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("user:9"))
}

func TestAside_FetchError(t *testing.T) {
	_, store := newStore(t)
	boom := errors.New("db down")

	_, err := Aside(context.Background(), store, UserKey(2), UserTTL, func() (*profile, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestAside_DisabledStore(t *testing.T) {
	var store *Store
	calls := 0
	for i := 0; i < 2; i++ {
		_, err := Aside(context.Background(), store, UserKey(3), time.Minute, func() (*profile, error) {
			calls++
			return &profile{ID: 3}, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
	store.Invalidate(context.Background(), "anything")
}

func TestInitRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	assert.Nil(t, InitRedis(addr))
	assert.NotNil(t, InitRedis("redis://"+miniredis.RunT(t).Addr()))
}
