package di

import (
	"go.uber.org/zap"

	"ecnelisfly/application/adminactions"
	"ecnelisfly/application/commands/bus"
	"ecnelisfly/application/ports"
	querybus "ecnelisfly/application/queries/bus"
	"ecnelisfly/application/services"
	domainconfig "ecnelisfly/domain/config"
	"ecnelisfly/infrastructure/config"
	"ecnelisfly/pkg/auth"
	"ecnelisfly/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Domain  *domainconfig.DomainConfig
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Tracer  *observability.Tracer

	Tables    *services.Tables
	Cache     ports.Cache
	Locker    ports.Locker
	Publisher ports.EventPublisher

	Sounds        *services.SoundService
	Zones         *services.ZoneService
	Journeys      *services.JourneyService
	Featured      *services.FeaturedSoundService
	Monthly       *services.MonthlyPickService
	AdminUsers    *services.AdminUserService
	UserStats     *services.UserStatsService
	Notifications *services.NotificationService
	PickJobs      *services.PickJobs

	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	AdminActions *adminactions.Dispatcher

	// Validator is nil when only API Gateway authorizer claims are trusted
	Validator *auth.JWTValidator
}

// Close flushes the logger and stops background work
func (c *Container) Close() {
	if closer, ok := c.Cache.(interface{ Close() }); ok {
		closer.Close()
	}
	_ = c.Logger.Sync()
}
