package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrLockHeld is returned by TryAcquire when another owner holds the lock.
var ErrLockHeld = errors.New("lock already held")

// DistributedLock provides distributed locking using DynamoDB conditional
// writes. Lock rows live in their own table keyed by id; expired rows are
// taken over and swept by the table TTL.
type DistributedLock struct {
	client        DynamoAPI
	tableName     string
	owner         string
	logger        *zap.Logger
	retryInterval time.Duration
	maxInterval   time.Duration
}

// NewDistributedLock creates a new distributed lock instance
func NewDistributedLock(client DynamoAPI, tableName string, logger *zap.Logger) *DistributedLock {
	return &DistributedLock{
		client:        client,
		tableName:     tableName,
		owner:         uuid.NewString(),
		logger:        logger,
		retryInterval: 100 * time.Millisecond,
		maxInterval:   time.Second,
	}
}

// Acquire implements ports.Locker. It retries with backoff until the lock
// is taken or ctx is done.
func (dl *DistributedLock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	interval := dl.retryInterval
	for {
		release, err := dl.TryAcquire(ctx, key, ttl)
		if err == nil {
			return release, nil
		}
		if !errors.Is(err, ErrLockHeld) {
			return nil, err
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		if interval < dl.maxInterval {
			interval = time.Duration(float64(interval) * 1.5)
		}
	}
}

// TryAcquire makes a single attempt. It returns ErrLockHeld on contention.
func (dl *DistributedLock) TryAcquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lockID := fmt.Sprintf("%s_%d", dl.owner, time.Now().UnixNano())
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	input := &dynamodb.PutItemInput{
		TableName: aws.String(dl.tableName),
		Item: map[string]types.AttributeValue{
			"id":         &types.AttributeValueMemberS{Value: lockKey(key)},
			"lockId":     &types.AttributeValueMemberS{Value: lockID},
			"owner":      &types.AttributeValueMemberS{Value: dl.owner},
			"acquiredAt": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
			"expiresAt":  &types.AttributeValueMemberS{Value: expiresAt.Format(time.RFC3339Nano)},
			"ttl":        &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiresAt.Unix()+1)},
		},
		ConditionExpression: aws.String("attribute_not_exists(id) OR expiresAt < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
		},
	}

	if _, err := dl.client.PutItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			dl.logger.Debug("Lock already held", zap.String("resource", key))
			return nil, ErrLockHeld
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	dl.logger.Debug("Lock acquired",
		zap.String("resource", key),
		zap.String("lockID", lockID),
		zap.Duration("duration", ttl),
	)

	var once sync.Once
	var releaseErr error
	return func(ctx context.Context) error {
		once.Do(func() {
			releaseErr = dl.release(ctx, key, lockID)
		})
		return releaseErr
	}, nil
}

func (dl *DistributedLock) release(ctx context.Context, key, lockID string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(dl.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: lockKey(key)},
		},
		ConditionExpression: aws.String("lockId = :lockId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":lockId": &types.AttributeValueMemberS{Value: lockID},
		},
	}

	if _, err := dl.client.DeleteItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			dl.logger.Warn("Lock already released or taken over",
				zap.String("resource", key),
				zap.String("lockID", lockID),
			)
			return nil
		}
		return fmt.Errorf("failed to release lock: %w", err)
	}

	dl.logger.Debug("Lock released", zap.String("resource", key), zap.String("lockID", lockID))
	return nil
}

func lockKey(resource string) string {
	return "LOCK#" + resource
}
