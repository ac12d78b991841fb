//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"ecnelisfly/infrastructure/config"
)

// AWSSet provides the SDK clients
var AWSSet = wire.NewSet(
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideCognitoClient,
	ProvideSESClient,
	ProvideS3Client,
)

// InfrastructureSet provides the adapters behind the ports
var InfrastructureSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideTracer,
	ProvideDomainConfig,
	ProvideTables,
	ProvideLocker,
	ProvideInMemoryCache,
	ProvideEventPublisher,
	ProvideObjectStorage,
	ProvideIdentityClient,
	ProvideIdentityAdmin,
	ProvideIdentityDirectory,
	ProvideMailer,
	ProvideMetricsReporter,
	ProvideJWTValidator,
)

// ApplicationSet provides the services and buses
var ApplicationSet = wire.NewSet(
	ProvideSoundService,
	ProvideZoneService,
	ProvideJourneyService,
	ProvideFeaturedSoundService,
	ProvideMonthlyPickService,
	ProvideAdminUserService,
	ProvideUserStatsService,
	ProvideNotificationService,
	ProvidePickJobs,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideAdminDispatcher,
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	AWSSet,
	InfrastructureSet,
	ApplicationSet,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
