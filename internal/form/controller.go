package form

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBusy is returned by Submit while a submission is running or its success
// view is still showing.
var ErrBusy = errors.New("form is busy")

// Input is a form's raw field values.
type Input interface {
	Validate() Errors
}

// Snapshot is what a form view renders.
type Snapshot[I Input] struct {
	Input   I
	Errors  Errors
	Busy    bool
	Success bool
}

// Controller owns one form's draft, its field errors and the busy and
// success flags around a submit.
type Controller[I Input] struct {
	mu         sync.Mutex
	input      I
	errs       Errors
	busy       bool
	success    bool
	submit     func(ctx context.Context, in I) error
	resetDelay time.Duration
	timer      *time.Timer
	gen        int
}

// NewController creates an empty form. After a successful submit the form is
// cleared once resetDelay has passed; a zero delay keeps the success view until
// Reset is called.
func NewController[I Input](submit func(ctx context.Context, in I) error, resetDelay time.Duration) *Controller[I] {
	return &Controller[I]{submit: submit, resetDelay: resetDelay}
}

// Set replaces the draft.
func (c *Controller[I]) Set(in I) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = in
}

// ClearError drops the message for one field, typically once it is edited.
func (c *Controller[I]) ClearError(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.errs, field)
}

// Submit validates the draft and, when it is valid, hands it to the submit
// func. Validation failures are returned as Errors and keep the draft. So do
// submit errors.
func (c *Controller[I]) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.busy || c.success {
		c.mu.Unlock()
		return ErrBusy
	}
	if errs := c.input.Validate(); len(errs) > 0 {
		c.errs = errs
		c.mu.Unlock()
		return errs
	}
	c.errs = nil
	c.busy = true
	in := c.input
	gen := c.gen
	c.mu.Unlock()

	err := c.submit(ctx, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		return err
	}
	if gen != c.gen {
		// Reset while the submit was running.
		return nil
	}
	c.success = true
	if c.resetDelay > 0 {
		c.timer = time.AfterFunc(c.resetDelay, func() { c.resetGen(gen) })
	}
	return nil
}

// Reset clears the draft, errors and success view.
func (c *Controller[I]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller[I]) resetGen(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.resetLocked()
}

func (c *Controller[I]) resetLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	var zero I
	c.input = zero
	c.errs = nil
	c.success = false
	c.gen++
}

func (c *Controller[I]) State() Snapshot[I] {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := make(Errors, len(c.errs))
	for k, v := range c.errs {
		errs[k] = v
	}
	return Snapshot[I]{Input: c.input, Errors: errs, Busy: c.busy, Success: c.success}
}
