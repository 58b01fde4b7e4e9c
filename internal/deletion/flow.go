// Package deletion implements the confirm-before-delete flow shared by the
// customer, product and inventory pages.
package deletion

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned by ConfirmDelete while a previous confirmation is
// still running.
var ErrInFlight = errors.New("delete already in progress")

type State int

const (
	Idle State = iota
	Pending
	Confirming
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirming:
		return "confirming"
	default:
		return "idle"
	}
}

// RemoveFunc deletes the entity addressed by key.
type RemoveFunc func(ctx context.Context, key string) error

// Flow stages at most one key for deletion and runs the delete only once it
// is confirmed. The staged key is cleared on every exit from Confirming.
type Flow struct {
	mu        sync.Mutex
	state     State
	key       string
	remove    RemoveFunc
	onDeleted func(key string)
	onError   func(key string, err error)
}

// New creates an idle Flow. onDeleted and onError may be nil.
func New(remove RemoveFunc, onDeleted func(key string), onError func(key string, err error)) *Flow {
	return &Flow{remove: remove, onDeleted: onDeleted, onError: onError}
}

// RequestDelete stages key, replacing any key already staged. It is ignored
// while a confirmation is running.
func (f *Flow) RequestDelete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Confirming {
		return
	}
	f.state = Pending
	f.key = key
}

// CancelDelete drops the staged key.
func (f *Flow) CancelDelete() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Pending {
		return
	}
	f.state = Idle
	f.key = ""
}

// ConfirmDelete deletes the staged key. With nothing staged it does nothing.
func (f *Flow) ConfirmDelete(ctx context.Context) error {
	f.mu.Lock()
	switch f.state {
	case Idle:
		f.mu.Unlock()
		return nil
	case Confirming:
		f.mu.Unlock()
		return ErrInFlight
	}
	key := f.key
	f.state = Confirming
	f.mu.Unlock()

	err := f.remove(ctx, key)

	f.mu.Lock()
	f.state = Idle
	f.key = ""
	f.mu.Unlock()

	if err != nil {
		if f.onError != nil {
			f.onError(key, err)
		}
		return err
	}
	if f.onDeleted != nil {
		f.onDeleted(key)
	}
	return nil
}

// Pending returns the staged key, if any. A key being confirmed still counts.
func (f *Flow) Pending() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key, f.state != Idle
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}
