package ports

import (
	"context"
	"errors"
)

// ErrConditionFailed is returned when a conditional write does not hold:
// create on an existing key, update or delete of a missing key.
var ErrConditionFailed = errors.New("conditional write failed")

// Collection is the per-table data client. R is the raw record type of the
// table (see infrastructure/persistence/schema). This is a port in
// hexagonal architecture - services never see the store behind it.
type Collection[R any] interface {
	// List scans the table one page at a time
	List(ctx context.Context, opts ListOptions) (*Page[R], error)

	// Query reads one page of a named secondary index for value
	Query(ctx context.Context, index string, value any, opts ListOptions) (*Page[R], error)

	// Get returns the record with the given key, or nil when absent
	Get(ctx context.Context, id string) (*R, error)

	// Create stores a new record. An empty key gets a generated UUID.
	Create(ctx context.Context, record R) (*R, error)

	// Update writes only the patch keys and returns the full new record
	Update(ctx context.Context, id string, patch Patch) (*R, error)

	// Increment atomically adds delta to a numeric attribute. A negative
	// delta that would take the attribute below zero fails with
	// ErrConditionFailed, as does a missing key.
	Increment(ctx context.Context, id, attr string, delta int) (*R, error)

	// Delete removes the record with the given key
	Delete(ctx context.Context, id string) error
}

// ListOptions narrows a page request. Filter entries are equality
// conditions ANDed together and evaluated after Limit, as the store does.
type ListOptions struct {
	Filter     map[string]any
	Limit      int
	NextToken  string
	Projection []string
}

// Page is one page of results. An empty NextToken means the walk is done.
type Page[R any] struct {
	Items     []R
	NextToken string
}

// Patch is a sparse update keyed by stored attribute name. A nil value
// removes the attribute.
type Patch map[string]any

// Set adds key to the patch and returns the patch for chaining.
func (p Patch) Set(key string, value any) Patch {
	p[key] = value
	return p
}

// Keys returns the patch keys in no particular order.
func (p Patch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}

// IsEmpty reports whether the patch has nothing to write.
func (p Patch) IsEmpty() bool {
	return len(p) == 0
}
