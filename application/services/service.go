// Package services composes collections, mappers and the pagination walker
// into the named operations of the sound map.
package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ecnelisfly/application/pagination"
	"ecnelisfly/application/ports"
	"ecnelisfly/domain/config"
	"ecnelisfly/domain/events"
	"ecnelisfly/infrastructure/persistence/schema"
	pkgerrors "ecnelisfly/pkg/errors"
)

// Tables bundles one collection per table.
type Tables struct {
	Sounds          ports.Collection[schema.Sound]
	Zones           ports.Collection[schema.Zone]
	ZoneSounds      ports.Collection[schema.ZoneSound]
	Journeys        ports.Collection[schema.SoundJourney]
	Steps           ports.Collection[schema.SoundJourneyStep]
	Candidates      ports.Collection[schema.FeaturedSoundCandidate]
	DailyFeatured   ports.Collection[schema.DailyFeaturedSound]
	MonthlyZones    ports.Collection[schema.MonthlyZone]
	MonthlyJourneys ports.Collection[schema.MonthlyJourney]
	Users           ports.Collection[schema.User]
	EmailTemplates  ports.Collection[schema.EmailTemplate]
}

// failed logs a backend error and returns the generic operation error.
// Errors the services raise themselves (validation, not found, conflict)
// pass through unchanged.
func failed(logger *zap.Logger, op string, err error) error {
	if appErr := pkgerrors.GetAppError(err); appErr != nil && appErr.Type != pkgerrors.ErrorTypeExternal {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("Operation cancelled", zap.String("operation", op), zap.Error(err))
	} else {
		logger.Error("Operation failed", zap.String("operation", op), zap.Error(err))
	}
	return pkgerrors.NewOperationFailedError(op).WithCause(err)
}

// walkOptions returns the page request used by full-table walks.
func walkOptions(cfg *config.DomainConfig, filter map[string]any, projection ...string) ports.ListOptions {
	return ports.ListOptions{
		Filter:     filter,
		Limit:      cfg.DefaultPageSize,
		Projection: projection,
	}
}

func listAll[R, T any](ctx context.Context, cfg *config.DomainConfig, c ports.Collection[R], filter map[string]any, project func(R) T) ([]T, error) {
	return pagination.Walk(ctx, pagination.FromList(c, walkOptions(cfg, filter)), project,
		pagination.WithMaxPages(cfg.MaxWalkPages))
}

func queryAll[R, T any](ctx context.Context, cfg *config.DomainConfig, c ports.Collection[R], index string, value any, filter map[string]any, project func(R) T) ([]T, error) {
	return pagination.Walk(ctx, pagination.FromQuery(c, index, value, walkOptions(cfg, filter)), project,
		pagination.WithMaxPages(cfg.MaxWalkPages))
}

// publish sends an event when a publisher is configured. Failures are
// logged and dropped.
func publish(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, event events.DomainEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}

// notFoundOnMissing turns a failed conditional write into a not-found error.
func notFoundOnMissing(err error, resource string) error {
	if errors.Is(err, ports.ErrConditionFailed) {
		return pkgerrors.NewNotFoundError(resource)
	}
	return err
}
