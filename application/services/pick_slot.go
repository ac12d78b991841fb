package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ecnelisfly/application/ports"
	"ecnelisfly/domain/config"
	"ecnelisfly/domain/core/entities"
)

// pickSlot is one family of "current pick" rows keyed by a period key
// (a date or a month). At most one row per key is active once replace
// returns.
type pickSlot[R any] struct {
	kind   entities.PickKind
	rows   ports.Collection[R]
	index  string
	active func(R) bool
	id     func(R) string
	// retire takes an active row out of the slot.
	retire func(ctx context.Context, rows ports.Collection[R], id string) error
}

// current returns the first active row for key, or nil.
func (p pickSlot[R]) current(ctx context.Context, cfg *config.DomainConfig, key string) (*R, error) {
	rows, err := queryAll(ctx, cfg, p.rows, p.index, key, nil, func(r R) R { return r })
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if p.active(rows[i]) {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// replace retires every active row for key and stores snapshot. Callers
// holding the same lock key are serialized; without a locker two
// concurrent calls may both leave an active row.
func (p pickSlot[R]) replace(
	ctx context.Context,
	cfg *config.DomainConfig,
	locker ports.Locker,
	key string,
	snapshot R,
	logger *zap.Logger,
) (*R, int, error) {
	if locker != nil {
		release, err := locker.Acquire(ctx, p.lockKey(key), lockTTL(cfg))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to lock %s: %w", p.lockKey(key), err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("Failed to release pick lock", zap.String("lockKey", p.lockKey(key)), zap.Error(err))
			}
		}()
	}

	rows, err := queryAll(ctx, cfg, p.rows, p.index, key, nil, func(r R) R { return r })
	if err != nil {
		return nil, 0, err
	}

	retired := 0
	for _, row := range rows {
		if !p.active(row) {
			continue
		}
		if err := p.retire(ctx, p.rows, p.id(row)); err != nil {
			return nil, retired, err
		}
		retired++
	}

	created, err := p.rows.Create(ctx, snapshot)
	if err != nil {
		return nil, retired, err
	}

	logger.Info("Pick selected",
		zap.String("kind", string(p.kind)),
		zap.String("periodKey", key),
		zap.String("pickID", p.id(*created)),
		zap.Int("retired", retired),
	)
	return created, retired, nil
}

func (p pickSlot[R]) lockKey(key string) string {
	return string(p.kind) + "#" + key
}

func lockTTL(cfg *config.DomainConfig) time.Duration {
	if cfg.LockTTL > 0 {
		return cfg.LockTTL
	}
	return 30 * time.Second
}

func deleteRow[R any](ctx context.Context, rows ports.Collection[R], id string) error {
	return rows.Delete(ctx, id)
}

func deactivateRow[R any](ctx context.Context, rows ports.Collection[R], id string) error {
	_, err := rows.Update(ctx, id, ports.Patch{"active": false})
	return err
}
