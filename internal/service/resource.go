package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/DPlauder/meisterplan/internal/observe"
)

// Gateway is the subset of gateway.Client the services require.
type Gateway interface {
	Do(ctx context.Context, method, path string, body, out any) error
	Delete(ctx context.Context, path string) (bool, error)
}

// DeleteError is returned when the gateway answered a delete without
// confirming it.
type DeleteError struct {
	Entity string
	Key    string
}

func (e *DeleteError) Error() string {
	return "could not delete " + e.Entity
}

// resource maps CRUD calls for one entity onto a single REST collection.
// T is the entity, D its create draft and P its partial update.
type resource[T, D, P any] struct {
	gw       Gateway
	observer observe.Observer
	entity   string
	path     string
}

func newResource[T, D, P any](gw Gateway, obs observe.Observer, entity, path string) resource[T, D, P] {
	if obs == nil {
		obs = observe.Nop
	}
	return resource[T, D, P]{gw: gw, observer: obs, entity: entity, path: path}
}

func (r resource[T, D, P]) itemPath(key string) string {
	return r.path + "/" + url.PathEscape(key)
}

func (r resource[T, D, P]) report(ctx context.Context, op, key string, start time.Time, err error) {
	r.observer.Observe(ctx, observe.Event{
		Op:       op,
		Entity:   r.entity,
		Key:      key,
		Duration: time.Since(start),
		Err:      err,
	})
}

func (r resource[T, D, P]) list(ctx context.Context) (_ []T, err error) {
	start := time.Now()
	defer func() { r.report(ctx, observe.OpList, "", start, err) }()

	var out []T
	if err := r.gw.Do(ctx, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", r.entity, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r resource[T, D, P]) get(ctx context.Context, key string) (_ *T, err error) {
	start := time.Now()
	defer func() { r.report(ctx, observe.OpGet, key, start, err) }()

	var out T
	if err := r.gw.Do(ctx, http.MethodGet, r.itemPath(key), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", r.entity, err)
	}
	return &out, nil
}

func (r resource[T, D, P]) create(ctx context.Context, draft D) (_ *T, err error) {
	start := time.Now()
	defer func() { r.report(ctx, observe.OpCreate, "", start, err) }()

	var out T
	if err := r.gw.Do(ctx, http.MethodPost, r.path, draft, &out); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", r.entity, err)
	}
	return &out, nil
}

func (r resource[T, D, P]) update(ctx context.Context, key string, patch P) (_ *T, err error) {
	start := time.Now()
	defer func() { r.report(ctx, observe.OpUpdate, key, start, err) }()

	var out T
	if err := r.gw.Do(ctx, http.MethodPut, r.itemPath(key), patch, &out); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", r.entity, err)
	}
	return &out, nil
}

func (r resource[T, D, P]) remove(ctx context.Context, key string) (err error) {
	start := time.Now()
	defer func() { r.report(ctx, observe.OpDelete, key, start, err) }()

	ok, err := r.gw.Delete(ctx, r.itemPath(key))
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.entity, err)
	}
	if !ok {
		return &DeleteError{Entity: r.entity, Key: key}
	}
	return nil
}
