// Package memory holds in-process adapters used by tests and local runs.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"ecnelisfly/application/ports"
	"ecnelisfly/infrastructure/persistence/schema"
)

// DefaultPageSize is used when a request carries no limit.
const DefaultPageSize = 100

type item = map[string]types.AttributeValue

// Collection is an insertion-ordered, in-memory ports.Collection. Items are
// kept as DynamoDB attribute maps so marshaling matches the real store, and
// Limit is applied before the filter the same way.
type Collection[R any] struct {
	mu    sync.RWMutex
	spec  schema.TableSpec
	order []string
	items map[string]item
	now   func() time.Time
	newID func() string

	// failNext makes the next N calls fail; used by tests.
	failNext int
	failErr  error
}

// Option configures a Collection.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock pins the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

// NewCollection creates an empty collection for the given table.
func NewCollection[R any](spec schema.TableSpec, opts ...Option) *Collection[R] {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[R]{
		spec:  spec,
		items: make(map[string]item),
		now:   o.now,
		newID: o.newID,
	}
}

// FailNext makes the next n operations return err.
func (c *Collection[R]) FailNext(n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext = n
	c.failErr = err
}

// Len returns the number of stored items.
func (c *Collection[R]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

func (c *Collection[R]) injectedFailure() error {
	if c.failNext > 0 {
		c.failNext--
		return c.failErr
	}
	return nil
}

// List returns one page of the table in insertion order.
func (c *Collection[R]) List(ctx context.Context, opts ports.ListOptions) (*ports.Page[R], error) {
	return c.page(ctx, "", nil, opts)
}

// Query returns one page of items whose index attribute equals value.
func (c *Collection[R]) Query(ctx context.Context, index string, value any, opts ports.ListOptions) (*ports.Page[R], error) {
	attr, err := c.spec.IndexAttribute(index)
	if err != nil {
		return nil, err
	}
	av, err := attributevalue.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal index value: %w", err)
	}
	return c.page(ctx, attr, av, opts)
}

func (c *Collection[R]) page(ctx context.Context, keyAttr string, keyValue types.AttributeValue, opts ports.ListOptions) (*ports.Page[R], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if err := c.injectedFailure(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	candidates := make([]item, 0, len(c.order))
	for _, id := range c.order {
		it := c.items[id]
		if keyAttr != "" && !attributeEquals(it[keyAttr], keyValue) {
			continue
		}
		candidates = append(candidates, it)
	}
	c.mu.Unlock()

	start := 0
	if opts.NextToken != "" {
		n, err := strconv.Atoi(opts.NextToken)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid next token %q", opts.NextToken)
		}
		start = n
	}
	if start > len(candidates) {
		start = len(candidates)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	end := start + limit
	if end > len(candidates) {
		end = len(candidates)
	}

	filter, err := marshalFilter(opts.Filter)
	if err != nil {
		return nil, err
	}

	out := &ports.Page[R]{Items: make([]R, 0, end-start)}
	for _, it := range candidates[start:end] {
		if !matches(it, filter) {
			continue
		}
		rec, err := decode[R](project(it, opts.Projection))
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, rec)
	}
	if end < len(candidates) {
		out.NextToken = strconv.Itoa(end)
	}
	return out, nil
}

// Get returns the item with the given key, or nil.
func (c *Collection[R]) Get(ctx context.Context, id string) (*R, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.injectedFailure(); err != nil {
		return nil, err
	}
	it, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	rec, err := decode[R](it)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create stores a new item. The key must not exist yet.
func (c *Collection[R]) Create(ctx context.Context, record R) (*R, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	it, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	keyAttr := c.spec.KeyAttribute()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.injectedFailure(); err != nil {
		return nil, err
	}

	id := stringAttr(it[keyAttr])
	if id == "" {
		id = c.newID()
		it[keyAttr] = &types.AttributeValueMemberS{Value: id}
	}
	if _, exists := c.items[id]; exists {
		return nil, ports.ErrConditionFailed
	}
	now := &types.AttributeValueMemberS{Value: c.now().Format(time.RFC3339)}
	if stringAttr(it[schema.AttrCreatedAt]) == "" {
		it[schema.AttrCreatedAt] = now
	}
	it[schema.AttrUpdatedAt] = now

	c.items[id] = it
	c.order = append(c.order, id)

	rec, err := decode[R](it)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update applies a sparse patch to an existing item.
func (c *Collection[R]) Update(ctx context.Context, id string, patch ports.Patch) (*R, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.injectedFailure(); err != nil {
		return nil, err
	}

	current, ok := c.items[id]
	if !ok {
		return nil, ports.ErrConditionFailed
	}
	next := make(item, len(current)+len(patch)+1)
	for k, v := range current {
		next[k] = v
	}
	for key, value := range patch {
		if key == c.spec.KeyAttribute() {
			return nil, fmt.Errorf("cannot update key attribute %q", key)
		}
		if value == nil {
			delete(next, key)
			continue
		}
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", key, err)
		}
		next[key] = av
	}
	next[schema.AttrUpdatedAt] = &types.AttributeValueMemberS{Value: c.now().Format(time.RFC3339)}
	c.items[id] = next

	rec, err := decode[R](next)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Increment adds delta to a numeric attribute under the write lock.
func (c *Collection[R]) Increment(ctx context.Context, id, attr string, delta int) (*R, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.injectedFailure(); err != nil {
		return nil, err
	}
	if attr == c.spec.KeyAttribute() {
		return nil, fmt.Errorf("cannot update key attribute %q", attr)
	}

	current, ok := c.items[id]
	if !ok {
		return nil, ports.ErrConditionFailed
	}
	value := 0
	if n, ok := current[attr].(*types.AttributeValueMemberN); ok {
		parsed, err := strconv.Atoi(n.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %s is not an integer: %w", attr, err)
		}
		value = parsed
	} else if delta < 0 {
		return nil, ports.ErrConditionFailed
	}
	if value+delta < 0 {
		return nil, ports.ErrConditionFailed
	}

	next := make(item, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[attr] = &types.AttributeValueMemberN{Value: strconv.Itoa(value + delta)}
	next[schema.AttrUpdatedAt] = &types.AttributeValueMemberS{Value: c.now().Format(time.RFC3339)}
	c.items[id] = next

	rec, err := decode[R](next)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes an existing item.
func (c *Collection[R]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.injectedFailure(); err != nil {
		return err
	}
	if _, ok := c.items[id]; !ok {
		return ports.ErrConditionFailed
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func decode[R any](it item) (R, error) {
	var rec R
	if err := attributevalue.UnmarshalMap(it, &rec); err != nil {
		return rec, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}

func marshalFilter(filter map[string]any) (item, error) {
	if len(filter) == 0 {
		return nil, nil
	}
	out := make(item, len(filter))
	for k, v := range filter {
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal filter %s: %w", k, err)
		}
		out[k] = av
	}
	return out, nil
}

func matches(it item, filter item) bool {
	for k, want := range filter {
		if !attributeEquals(it[k], want) {
			return false
		}
	}
	return true
}

func project(it item, attrs []string) item {
	if len(attrs) == 0 {
		return it
	}
	out := make(item, len(attrs))
	for _, a := range attrs {
		if v, ok := it[a]; ok {
			out[a] = v
		}
	}
	return out
}

func stringAttr(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

// attributeEquals compares two attribute values; numbers compare by value.
func attributeEquals(a, b types.AttributeValue) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		if !ok {
			return false
		}
		x, errA := strconv.ParseFloat(av.Value, 64)
		y, errB := strconv.ParseFloat(bv.Value, 64)
		return errA == nil && errB == nil && x == y
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	default:
		var x, y interface{}
		if attributevalue.Unmarshal(a, &x) != nil || attributevalue.Unmarshal(b, &y) != nil {
			return false
		}
		return reflect.DeepEqual(x, y)
	}
}
