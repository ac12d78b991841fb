package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awscognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	awssesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"go.uber.org/zap"

	"ecnelisfly/application/adminactions"
	"ecnelisfly/application/commands/bus"
	commandhandlers "ecnelisfly/application/commands/handlers"
	"ecnelisfly/application/ports"
	querybus "ecnelisfly/application/queries/bus"
	queryhandlers "ecnelisfly/application/queries/handlers"
	"ecnelisfly/application/services"
	domainconfig "ecnelisfly/domain/config"
	"ecnelisfly/infrastructure/config"
	"ecnelisfly/infrastructure/identity/cognito"
	"ecnelisfly/infrastructure/mail/ses"
	"ecnelisfly/infrastructure/messaging/eventbridge"
	"ecnelisfly/infrastructure/persistence/dynamodb"
	"ecnelisfly/infrastructure/persistence/instrumented"
	"ecnelisfly/infrastructure/persistence/memory"
	"ecnelisfly/infrastructure/persistence/schema"
	"ecnelisfly/infrastructure/storage/s3"
	"ecnelisfly/pkg/auth"
	"ecnelisfly/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideCognitoClient creates a Cognito identity provider client
func ProvideCognitoClient(awsCfg aws.Config) *awscognito.Client {
	return awscognito.NewFromConfig(awsCfg)
}

// ProvideSESClient creates an SES v2 client
func ProvideSESClient(awsCfg aws.Config) *awssesv2.Client {
	return awssesv2.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client
func ProvideS3Client(awsCfg aws.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the Prometheus collectors
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics("ecnelisfly")
}

// ProvideTracer creates the x-ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("ecnelisfly", cfg.EnableTracing)
}

// ProvideDomainConfig applies deployment settings to the domain rules
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	domain := domainconfig.DefaultDomainConfig()
	domain.AdminGroup = cfg.AdminGroup
	domain.CommunityStatsTTL = cfg.StatsCacheTTL
	domain.LockTTL = cfg.LockTTL
	domain.SoundURLTTL = cfg.PresignTTL
	return domain
}

// ProvideTables binds one collection per table to the configured driver
func ProvideTables(cfg *config.Config, client *awsdynamodb.Client, metrics *observability.Metrics, tracer *observability.Tracer, logger *zap.Logger) *services.Tables {
	return &services.Tables{
		Sounds:          table[schema.Sound](cfg, client, metrics, tracer, logger, schema.TableSound),
		Zones:           table[schema.Zone](cfg, client, metrics, tracer, logger, schema.TableZone),
		ZoneSounds:      table[schema.ZoneSound](cfg, client, metrics, tracer, logger, schema.TableZoneSound),
		Journeys:        table[schema.SoundJourney](cfg, client, metrics, tracer, logger, schema.TableSoundJourney),
		Steps:           table[schema.SoundJourneyStep](cfg, client, metrics, tracer, logger, schema.TableSoundJourneyStep),
		Candidates:      table[schema.FeaturedSoundCandidate](cfg, client, metrics, tracer, logger, schema.TableFeaturedSoundCandidate),
		DailyFeatured:   table[schema.DailyFeaturedSound](cfg, client, metrics, tracer, logger, schema.TableDailyFeaturedSound),
		MonthlyZones:    table[schema.MonthlyZone](cfg, client, metrics, tracer, logger, schema.TableMonthlyZone),
		MonthlyJourneys: table[schema.MonthlyJourney](cfg, client, metrics, tracer, logger, schema.TableMonthlyJourney),
		Users:           table[schema.User](cfg, client, metrics, tracer, logger, schema.TableUser),
		EmailTemplates:  table[schema.EmailTemplate](cfg, client, metrics, tracer, logger, schema.TableEmailTemplate),
	}
}

func table[R any](cfg *config.Config, client *awsdynamodb.Client, metrics *observability.Metrics, tracer *observability.Tracer, logger *zap.Logger, logical string) ports.Collection[R] {
	spec := schema.Spec(logical, cfg.TableName(logical))

	var inner ports.Collection[R]
	if cfg.StorageDriver == config.StorageMemory {
		inner = memory.NewCollection[R](spec)
	} else {
		inner = dynamodb.NewCollection[R](client, spec, logger)
	}

	if !cfg.EnableMetrics && !cfg.EnableTracing {
		return inner
	}
	return instrumented.Wrap(inner, logical, metrics, tracer)
}

// ProvideLocker creates the pick lock for the configured driver
func ProvideLocker(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) ports.Locker {
	if cfg.StorageDriver == config.StorageMemory {
		return memory.NewLocker()
	}
	return dynamodb.NewDistributedLock(client, cfg.TableName(schema.TableLocks), logger)
}

// ProvideJWTValidator checks bearer tokens outside API Gateway. Without a
// secret only authorizer claims are trusted and the validator is nil.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideInMemoryCache creates the process cache
func ProvideInMemoryCache(metrics *observability.Metrics) ports.Cache {
	return NewInMemoryCache(metrics)
}

// ProvideEventPublisher publishes to EventBridge, or drops events when no
// bus is configured
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NopPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideObjectStorage creates the sound file storage
func ProvideObjectStorage(cfg *config.Config, client *awss3.Client, logger *zap.Logger) ports.ObjectStorage {
	return s3.NewFromClient(client, cfg.SoundBucket, logger)
}

// ProvideIdentityClient creates the Cognito adapter
func ProvideIdentityClient(cfg *config.Config, client *awscognito.Client, logger *zap.Logger) *cognito.Client {
	return cognito.NewClient(client, cfg.UserPoolID, cfg.AdminGroup, logger)
}

// ProvideIdentityAdmin exposes the Cognito adapter as ports.IdentityAdmin
func ProvideIdentityAdmin(c *cognito.Client) ports.IdentityAdmin {
	return c
}

// ProvideIdentityDirectory exposes the Cognito adapter as ports.IdentityDirectory
func ProvideIdentityDirectory(c *cognito.Client) ports.IdentityDirectory {
	return c
}

// ProvideMailer creates the SES mailer
func ProvideMailer(client *awssesv2.Client, logger *zap.Logger) ports.Mailer {
	return ses.NewMailer(client, logger)
}

// ProvideMetricsReporter creates the scheduled-job reporter
func ProvideMetricsReporter(cfg *config.Config, client *awscloudwatch.Client, metrics *observability.Metrics, logger *zap.Logger) ports.MetricsReporter {
	if !cfg.EnableMetrics {
		return observability.NewCloudWatchReporter(nil, cfg.MetricsNamespace, metrics, logger)
	}
	return observability.NewCloudWatchReporter(client, cfg.MetricsNamespace, metrics, logger)
}

// ProvideSoundService creates the sound service
func ProvideSoundService(tables *services.Tables, storage ports.ObjectStorage, cache ports.Cache, publisher ports.EventPublisher, domain *domainconfig.DomainConfig, logger *zap.Logger) *services.SoundService {
	return services.NewSoundService(tables, storage, cache, publisher, domain, logger.Named("sounds"))
}

// ProvideZoneService creates the zone service
func ProvideZoneService(tables *services.Tables, publisher ports.EventPublisher, domain *domainconfig.DomainConfig, logger *zap.Logger) *services.ZoneService {
	return services.NewZoneService(tables, publisher, domain, logger.Named("zones"))
}

// ProvideJourneyService creates the journey service
func ProvideJourneyService(tables *services.Tables, domain *domainconfig.DomainConfig, logger *zap.Logger) *services.JourneyService {
	return services.NewJourneyService(tables, domain, logger.Named("journeys"))
}

// ProvideFeaturedSoundService creates the daily featured sound service
func ProvideFeaturedSoundService(tables *services.Tables, locker ports.Locker, publisher ports.EventPublisher, domain *domainconfig.DomainConfig, logger *zap.Logger) *services.FeaturedSoundService {
	return services.NewFeaturedSoundService(tables, locker, publisher, domain, logger.Named("featured"))
}

// ProvideMonthlyPickService creates the monthly pick service
func ProvideMonthlyPickService(tables *services.Tables, locker ports.Locker, publisher ports.EventPublisher, domain *domainconfig.DomainConfig, logger *zap.Logger) *services.MonthlyPickService {
	return services.NewMonthlyPickService(tables, locker, publisher, domain, logger.Named("monthly"))
}

// ProvideAdminUserService creates the admin user service
func ProvideAdminUserService(tables *services.Tables, identity ports.IdentityAdmin, publisher ports.EventPublisher, domain *domainconfig.DomainConfig, logger *zap.Logger) *services.AdminUserService {
	return services.NewAdminUserService(tables, identity, publisher, domain, logger.Named("admin"))
}

// ProvideUserStatsService creates the user stats service
func ProvideUserStatsService(directory ports.IdentityDirectory, logger *zap.Logger) *services.UserStatsService {
	return services.NewUserStatsService(directory, logger.Named("userStats"))
}

// ProvideNotificationService creates the notification service
func ProvideNotificationService(tables *services.Tables, mailer ports.Mailer, cfg *config.Config, logger *zap.Logger) *services.NotificationService {
	return services.NewNotificationService(tables.EmailTemplates, mailer, services.NotificationConfig{
		From:    cfg.SenderEmail,
		Enabled: cfg.SESEnabled,
	}, logger.Named("notifications"))
}

// ProvidePickJobs creates the scheduled pick jobs
func ProvidePickJobs(featured *services.FeaturedSoundService, monthly *services.MonthlyPickService, zones *services.ZoneService, journeys *services.JourneyService, reporter ports.MetricsReporter, logger *zap.Logger) *services.PickJobs {
	return services.NewPickJobs(featured, monthly, zones, journeys, reporter, logger.Named("pickJobs"))
}

// ProvideCommandBus creates the command bus with the account handlers
func ProvideCommandBus(identity ports.IdentityAdmin, tracer *observability.Tracer, logger *zap.Logger) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger), bus.TracingMiddleware(tracer))
	if err := commandhandlers.NewUserAdminHandler(identity, logger).Register(commandBus); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideQueryBus creates the query bus with the account handlers
func ProvideQueryBus(identity ports.IdentityAdmin, metrics *observability.Metrics, logger *zap.Logger) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(querybus.NewMetricsMiddleware(metrics))
	if err := queryhandlers.NewListUserStatusesHandler(identity, logger).Register(queryBus); err != nil {
		return nil, err
	}
	return queryBus, nil
}

// ProvideAdminDispatcher creates the admin action dispatcher
func ProvideAdminDispatcher(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, cfg *config.Config, logger *zap.Logger) *adminactions.Dispatcher {
	return adminactions.NewDispatcher(commandBus, queryBus, cfg.AdminGroup, logger)
}
