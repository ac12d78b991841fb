// Package instrumented decorates collections with metrics and tracing.
package instrumented

import (
	"context"
	"time"

	"ecnelisfly/application/ports"
)

// Observer receives one observation per table operation.
type Observer interface {
	ObserveCollection(operation, table string, duration time.Duration, err error)
}

// Tracer wraps an operation in a trace span.
type Tracer interface {
	Trace(ctx context.Context, name string, fn func(context.Context) error) error
}

// Collection forwards to an inner collection and observes every call.
type Collection[R any] struct {
	inner    ports.Collection[R]
	table    string
	observer Observer
	tracer   Tracer
}

var _ ports.Collection[struct{}] = (*Collection[struct{}])(nil)

// Wrap decorates inner. tracer may be nil.
func Wrap[R any](inner ports.Collection[R], table string, observer Observer, tracer Tracer) *Collection[R] {
	return &Collection[R]{inner: inner, table: table, observer: observer, tracer: tracer}
}

func (c *Collection[R]) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()
	var err error
	if c.tracer != nil {
		err = c.tracer.Trace(ctx, c.table+"."+op, fn)
	} else {
		err = fn(ctx)
	}
	c.observer.ObserveCollection(op, c.table, time.Since(start), err)
	return err
}

// List implements ports.Collection
func (c *Collection[R]) List(ctx context.Context, opts ports.ListOptions) (page *ports.Page[R], err error) {
	err = c.observe(ctx, "List", func(ctx context.Context) error {
		page, err = c.inner.List(ctx, opts)
		return err
	})
	return page, err
}

// Query implements ports.Collection
func (c *Collection[R]) Query(ctx context.Context, index string, value any, opts ports.ListOptions) (page *ports.Page[R], err error) {
	err = c.observe(ctx, "Query", func(ctx context.Context) error {
		page, err = c.inner.Query(ctx, index, value, opts)
		return err
	})
	return page, err
}

// Get implements ports.Collection
func (c *Collection[R]) Get(ctx context.Context, id string) (record *R, err error) {
	err = c.observe(ctx, "Get", func(ctx context.Context) error {
		record, err = c.inner.Get(ctx, id)
		return err
	})
	return record, err
}

// Create implements ports.Collection
func (c *Collection[R]) Create(ctx context.Context, in R) (record *R, err error) {
	err = c.observe(ctx, "Create", func(ctx context.Context) error {
		record, err = c.inner.Create(ctx, in)
		return err
	})
	return record, err
}

// Update implements ports.Collection
func (c *Collection[R]) Update(ctx context.Context, id string, patch ports.Patch) (record *R, err error) {
	err = c.observe(ctx, "Update", func(ctx context.Context) error {
		record, err = c.inner.Update(ctx, id, patch)
		return err
	})
	return record, err
}

// Increment implements ports.Collection
func (c *Collection[R]) Increment(ctx context.Context, id, attr string, delta int) (record *R, err error) {
	err = c.observe(ctx, "Increment", func(ctx context.Context) error {
		record, err = c.inner.Increment(ctx, id, attr, delta)
		return err
	})
	return record, err
}

// Delete implements ports.Collection
func (c *Collection[R]) Delete(ctx context.Context, id string) error {
	return c.observe(ctx, "Delete", func(ctx context.Context) error {
		return c.inner.Delete(ctx, id)
	})
}
