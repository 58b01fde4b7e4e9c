package deletion

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collection is a tiny keyed list the flow deletes from.
type collection struct {
	keys    []string
	failErr error
}

func (c *collection) remove(_ context.Context, key string) error {
	if c.failErr != nil {
		return c.failErr
	}
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool { return k == key })
	return nil
}

func TestRequestThenCancelLeavesCollection(t *testing.T) {
	c := &collection{keys: []string{"a", "b", "c"}}
	f := New(c.remove, nil, nil)

	f.RequestDelete("b")
	assert.Equal(t, Pending, f.State())
	f.CancelDelete()

	_, pending := f.Pending()
	assert.False(t, pending)
	assert.Equal(t, Idle, f.State())
	assert.Equal(t, []string{"a", "b", "c"}, c.keys)
}

func TestRequestThenConfirmRemovesExactlyThatKey(t *testing.T) {
	c := &collection{keys: []string{"a", "b", "c"}}
	var deleted []string
	f := New(c.remove, func(k string) { deleted = append(deleted, k) }, nil)

	f.RequestDelete("b")
	require.NoError(t, f.ConfirmDelete(context.Background()))

	assert.Equal(t, []string{"a", "c"}, c.keys)
	assert.Equal(t, []string{"b"}, deleted)
	_, pending := f.Pending()
	assert.False(t, pending)
}

func TestConfirmFailureCallsOnErrorAndClears(t *testing.T) {
	boom := errors.New("could not delete customer")
	c := &collection{keys: []string{"a"}, failErr: boom}
	var gotKey string
	var gotErr error
	f := New(c.remove, func(string) { t.Fatal("onDeleted must not run") }, func(k string, err error) {
		gotKey, gotErr = k, err
	})

	f.RequestDelete("a")
	err := f.ConfirmDelete(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "a", gotKey)
	assert.ErrorIs(t, gotErr, boom)
	assert.Equal(t, Idle, f.State())
	assert.Equal(t, []string{"a"}, c.keys)
}

func TestSecondRequestReplacesStagedKey(t *testing.T) {
	c := &collection{keys: []string{"a", "b"}}
	f := New(c.remove, nil, nil)

	f.RequestDelete("a")
	f.RequestDelete("b")
	key, pending := f.Pending()
	assert.True(t, pending)
	assert.Equal(t, "b", key)

	require.NoError(t, f.ConfirmDelete(context.Background()))
	assert.Equal(t, []string{"a"}, c.keys)
}

func TestConfirmWhileIdleIsNoop(t *testing.T) {
	called := false
	f := New(func(context.Context, string) error { called = true; return nil }, nil, nil)

	require.NoError(t, f.ConfirmDelete(context.Background()))
	assert.False(t, called)
}

func TestConfirmingRejectsReentryAndIgnoresRequests(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := New(func(context.Context, string) error {
		close(started)
		<-release
		return nil
	}, nil, nil)

	f.RequestDelete("a")
	done := make(chan error, 1)
	go func() { done <- f.ConfirmDelete(context.Background()) }()
	<-started

	assert.Equal(t, Confirming, f.State())
	assert.ErrorIs(t, f.ConfirmDelete(context.Background()), ErrInFlight)
	f.RequestDelete("b")
	f.CancelDelete()
	key, pending := f.Pending()
	assert.True(t, pending)
	assert.Equal(t, "a", key)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Idle, f.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "confirming", Confirming.String())
}
