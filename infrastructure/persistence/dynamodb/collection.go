package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecnelisfly/application/ports"
	"ecnelisfly/infrastructure/persistence/schema"
)

// Collection implements ports.Collection on one DynamoDB table. Every
// table is keyed by a single string attribute; secondary indexes are
// named in schema.TableSpec.
type Collection[R any] struct {
	client DynamoAPI
	spec   schema.TableSpec
	logger *zap.Logger
	now    func() time.Time
}

// NewCollection creates a collection bound to a table.
func NewCollection[R any](client DynamoAPI, spec schema.TableSpec, logger *zap.Logger) *Collection[R] {
	return &Collection[R]{
		client: client,
		spec:   spec,
		logger: logger.With(zap.String("table", spec.Name)),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List scans one page of the table.
func (c *Collection[R]) List(ctx context.Context, opts ports.ListOptions) (*ports.Page[R], error) {
	startKey, err := DecodeCursor(opts.NextToken)
	if err != nil {
		return nil, err
	}

	input := &dynamodb.ScanInput{
		TableName:         aws.String(c.spec.Name),
		ExclusiveStartKey: startKey,
	}
	if opts.Limit > 0 {
		input.Limit = aws.Int32(int32(opts.Limit))
	}

	if builder, ok := readExpression(opts); ok {
		expr, err := builder.Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build expression: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ProjectionExpression = expr.Projection()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	out, err := c.client.Scan(ctx, input)
	if err != nil {
		c.logger.Error("Scan failed", zap.Error(err))
		return nil, fmt.Errorf("failed to scan %s: %w", c.spec.Name, err)
	}
	return c.toPage(out.Items, out.LastEvaluatedKey)
}

// Query reads one page of a secondary index.
func (c *Collection[R]) Query(ctx context.Context, index string, value any, opts ports.ListOptions) (*ports.Page[R], error) {
	attr, err := c.spec.IndexAttribute(index)
	if err != nil {
		return nil, err
	}
	startKey, err := DecodeCursor(opts.NextToken)
	if err != nil {
		return nil, err
	}

	builder, _ := readExpression(opts)
	expr, err := builder.
		WithKeyCondition(expression.Key(attr).Equal(expression.Value(value))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(c.spec.Name),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         startKey,
	}
	if opts.Limit > 0 {
		input.Limit = aws.Int32(int32(opts.Limit))
	}

	out, err := c.client.Query(ctx, input)
	if err != nil {
		c.logger.Error("Query failed", zap.String("index", index), zap.Error(err))
		return nil, fmt.Errorf("failed to query %s.%s: %w", c.spec.Name, index, err)
	}
	return c.toPage(out.Items, out.LastEvaluatedKey)
}

// Get fetches one item by key. Absent items yield nil, nil.
func (c *Collection[R]) Get(ctx context.Context, id string) (*R, error) {
	out, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.spec.Name),
		Key:       c.key(id),
	})
	if err != nil {
		c.logger.Error("GetItem failed", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get %s/%s: %w", c.spec.Name, id, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec R
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return &rec, nil
}

// Create writes a new item. The write fails with ports.ErrConditionFailed
// when the key already exists.
func (c *Collection[R]) Create(ctx context.Context, record R) (*R, error) {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	keyAttr := c.spec.KeyAttribute()
	if s, ok := item[keyAttr].(*types.AttributeValueMemberS); !ok || s.Value == "" {
		item[keyAttr] = &types.AttributeValueMemberS{Value: uuid.NewString()}
	}
	now := &types.AttributeValueMemberS{Value: c.now().Format(time.RFC3339)}
	if s, ok := item[schema.AttrCreatedAt].(*types.AttributeValueMemberS); !ok || s.Value == "" {
		item[schema.AttrCreatedAt] = now
	}
	item[schema.AttrUpdatedAt] = now

	expr, err := expression.NewBuilder().
		WithCondition(expression.Name(keyAttr).AttributeNotExists()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(c.spec.Name),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, ports.ErrConditionFailed
		}
		c.logger.Error("PutItem failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create item in %s: %w", c.spec.Name, err)
	}

	var rec R
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return &rec, nil
}

// Update writes one SET per patch key (REMOVE for nil values) plus
// updatedAt, on an item that must exist.
func (c *Collection[R]) Update(ctx context.Context, id string, patch ports.Patch) (*R, error) {
	keyAttr := c.spec.KeyAttribute()

	keys := patch.Keys()
	sort.Strings(keys)

	var update expression.UpdateBuilder
	for _, attr := range keys {
		if attr == keyAttr {
			return nil, fmt.Errorf("cannot update key attribute %q", attr)
		}
		if attr == schema.AttrUpdatedAt {
			continue
		}
		if value := patch[attr]; value == nil {
			update = update.Remove(expression.Name(attr))
		} else {
			update = update.Set(expression.Name(attr), expression.Value(value))
		}
	}
	update = update.Set(
		expression.Name(schema.AttrUpdatedAt),
		expression.Value(c.now().Format(time.RFC3339)),
	)

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.Name(keyAttr).AttributeExists()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	rec, err := c.updateItem(ctx, id, expr)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Item updated", zap.String("id", id), zap.Strings("fields", keys))
	return rec, nil
}

// Increment issues an ADD on attr. Negative deltas are guarded so the
// stored value never drops below zero.
func (c *Collection[R]) Increment(ctx context.Context, id, attr string, delta int) (*R, error) {
	keyAttr := c.spec.KeyAttribute()
	if attr == keyAttr {
		return nil, fmt.Errorf("cannot update key attribute %q", attr)
	}

	update := expression.Add(expression.Name(attr), expression.Value(delta)).
		Set(expression.Name(schema.AttrUpdatedAt), expression.Value(c.now().Format(time.RFC3339)))
	cond := expression.Name(keyAttr).AttributeExists()
	if delta < 0 {
		cond = cond.And(expression.Name(attr).GreaterThanEqual(expression.Value(-delta)))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(cond).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}
	return c.updateItem(ctx, id, expr)
}

func (c *Collection[R]) updateItem(ctx context.Context, id string, expr expression.Expression) (*R, error) {
	out, err := c.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(c.spec.Name),
		Key:                       c.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, ports.ErrConditionFailed
		}
		c.logger.Error("UpdateItem failed", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update %s/%s: %w", c.spec.Name, id, err)
	}

	var rec R
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return &rec, nil
}

// Delete removes an item that must exist.
func (c *Collection[R]) Delete(ctx context.Context, id string) error {
	expr, err := expression.NewBuilder().
		WithCondition(expression.Name(c.spec.KeyAttribute()).AttributeExists()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(c.spec.Name),
		Key:                      c.key(id),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ports.ErrConditionFailed
		}
		c.logger.Error("DeleteItem failed", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete %s/%s: %w", c.spec.Name, id, err)
	}
	return nil
}

func (c *Collection[R]) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		c.spec.KeyAttribute(): &types.AttributeValueMemberS{Value: id},
	}
}

func (c *Collection[R]) toPage(items []map[string]types.AttributeValue, lastKey map[string]types.AttributeValue) (*ports.Page[R], error) {
	records := make([]R, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	token, err := EncodeCursor(lastKey)
	if err != nil {
		return nil, err
	}
	return &ports.Page[R]{Items: records, NextToken: token}, nil
}

// readExpression builds the filter and projection of a read. ok is false
// when the request needs neither.
func readExpression(opts ports.ListOptions) (expression.Builder, bool) {
	builder := expression.NewBuilder()
	ok := false

	if len(opts.Filter) > 0 {
		names := make([]string, 0, len(opts.Filter))
		for name := range opts.Filter {
			names = append(names, name)
		}
		sort.Strings(names)

		conds := make([]expression.ConditionBuilder, 0, len(names))
		for _, name := range names {
			conds = append(conds, expression.Name(name).Equal(expression.Value(opts.Filter[name])))
		}
		filter := conds[0]
		if len(conds) > 1 {
			filter = expression.And(conds[0], conds[1], conds[2:]...)
		}
		builder = builder.WithFilter(filter)
		ok = true
	}

	if len(opts.Projection) > 0 {
		proj := expression.NamesList(expression.Name(opts.Projection[0]))
		for _, name := range opts.Projection[1:] {
			proj = proj.AddNames(expression.Name(name))
		}
		builder = builder.WithProjection(proj)
		ok = true
	}

	return builder, ok
}
