// Package pagination walks cursor-paginated collections to exhaustion.
package pagination

import (
	"context"
	"errors"
	"fmt"

	"ecnelisfly/application/ports"
)

// DefaultMaxPages bounds a single walk.
const DefaultMaxPages = 10000

// ErrCursorLoop is returned when the store hands back a cursor the walk has
// already followed.
var ErrCursorLoop = errors.New("pagination cursor repeated")

// ErrTooManyPages is returned when a walk exceeds its page budget.
var ErrTooManyPages = errors.New("pagination page limit exceeded")

// PageFunc fetches the page that starts at nextToken ("" for the first page).
type PageFunc[R any] func(ctx context.Context, nextToken string) (*ports.Page[R], error)

// PartialResultError reports a walk that stopped early. The items fetched
// before the failure are returned alongside it.
type PartialResultError struct {
	Pages int
	Items int
	Err   error
}

func (e *PartialResultError) Error() string {
	return fmt.Sprintf("pagination stopped after %d page(s), %d item(s): %v", e.Pages, e.Items, e.Err)
}

func (e *PartialResultError) Unwrap() error {
	return e.Err
}

// Option tunes a walk.
type Option func(*walkConfig)

type walkConfig struct {
	maxPages int
}

// WithMaxPages overrides DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(c *walkConfig) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// Walk fetches every page and projects each item, preserving arrival order.
// The first failing page aborts the walk and nothing is returned.
func Walk[R, T any](ctx context.Context, fetch PageFunc[R], project func(R) T, opts ...Option) ([]T, error) {
	items, err := walk(ctx, fetch, project, opts)
	if err != nil {
		return nil, err.Err
	}
	return items, nil
}

// WalkPartial behaves like Walk but keeps what was fetched before a failure
// and returns it with a *PartialResultError.
func WalkPartial[R, T any](ctx context.Context, fetch PageFunc[R], project func(R) T, opts ...Option) ([]T, error) {
	items, err := walk(ctx, fetch, project, opts)
	if err != nil {
		return items, err
	}
	return items, nil
}

// CollectIDs walks the collection keeping only identifiers. Pair it with a
// fetch that projects the key attribute only.
func CollectIDs[R any](ctx context.Context, fetch PageFunc[R], id func(R) string, opts ...Option) ([]string, error) {
	return Walk(ctx, fetch, id, opts...)
}

// Count walks the collection and returns the number of items.
func Count[R any](ctx context.Context, fetch PageFunc[R], opts ...Option) (int, error) {
	total := 0
	_, err := Walk(ctx, func(ctx context.Context, token string) (*ports.Page[R], error) {
		page, err := fetch(ctx, token)
		if err == nil && page != nil {
			total += len(page.Items)
		}
		return page, err
	}, func(R) struct{} { return struct{}{} }, opts...)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func walk[R, T any](ctx context.Context, fetch PageFunc[R], project func(R) T, opts []Option) ([]T, *PartialResultError) {
	cfg := walkConfig{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		out   []T
		token string
		seen  = make(map[string]struct{})
		pages int
	)
	for {
		if err := ctx.Err(); err != nil {
			return out, &PartialResultError{Pages: pages, Items: len(out), Err: err}
		}
		if pages >= cfg.maxPages {
			return out, &PartialResultError{Pages: pages, Items: len(out), Err: ErrTooManyPages}
		}

		page, err := fetch(ctx, token)
		if err != nil {
			return out, &PartialResultError{Pages: pages, Items: len(out), Err: err}
		}
		pages++
		if page == nil {
			break
		}
		for _, item := range page.Items {
			out = append(out, project(item))
		}

		if page.NextToken == "" {
			break
		}
		if _, dup := seen[page.NextToken]; dup {
			return out, &PartialResultError{Pages: pages, Items: len(out), Err: ErrCursorLoop}
		}
		seen[page.NextToken] = struct{}{}
		token = page.NextToken
	}

	if out == nil {
		out = []T{}
	}
	return out, nil
}

// FromList adapts Collection.List into a PageFunc. opts.NextToken is ignored.
func FromList[R any](c ports.Collection[R], opts ports.ListOptions) PageFunc[R] {
	return func(ctx context.Context, token string) (*ports.Page[R], error) {
		o := opts
		o.NextToken = token
		return c.List(ctx, o)
	}
}

// FromQuery adapts Collection.Query into a PageFunc. opts.NextToken is ignored.
func FromQuery[R any](c ports.Collection[R], index string, value any, opts ports.ListOptions) PageFunc[R] {
	return func(ctx context.Context, token string) (*ports.Page[R], error) {
		o := opts
		o.NextToken = token
		return c.Query(ctx, index, value, o)
	}
}

// Identity is the projection that keeps records as they are.
func Identity[R any](r R) R { return r }
