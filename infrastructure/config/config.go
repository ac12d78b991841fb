package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"ecnelisfly/infrastructure/persistence/schema"
)

// Storage drivers.
const (
	StorageDynamoDB = "dynamodb"
	StorageMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"serverAddress"`
	Environment   string `yaml:"environment"`

	// AWS configuration
	AWSRegion     string            `yaml:"awsRegion"`
	StorageDriver string            `yaml:"storageDriver"`
	Tables        map[string]string `yaml:"tables"`
	EventBusName  string            `yaml:"eventBusName"`

	// Identity provider
	UserPoolID string `yaml:"userPoolId"`
	AdminGroup string `yaml:"adminGroup"`

	// Email
	SenderEmail string `yaml:"senderEmail"`
	SESEnabled  bool   `yaml:"sesEnabled"`

	// Object storage
	SoundBucket string        `yaml:"soundBucket"`
	PresignTTL  time.Duration `yaml:"presignTtl"`

	// Caching and locking
	StatsCacheTTL time.Duration `yaml:"statsCacheTtl"`
	LockTTL       time.Duration `yaml:"lockTtl"`

	// Metrics
	MetricsNamespace string `yaml:"metricsNamespace"`

	// Logging
	LogLevel string `yaml:"logLevel"`

	// Authentication
	JWTSecret string `yaml:"jwtSecret"`
	JWTIssuer string `yaml:"jwtIssuer"`

	// Feature flags
	EnableMetrics bool `yaml:"enableMetrics"`
	EnableTracing bool `yaml:"enableTracing"`
	EnableCORS    bool `yaml:"enableCors"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	tables := make(map[string]string, len(schema.LogicalTables()))
	for _, t := range schema.LogicalTables() {
		tables[t] = t
	}
	return &Config{
		ServerAddress:    ":8080",
		Environment:      "development",
		AWSRegion:        "eu-west-3",
		StorageDriver:    StorageDynamoDB,
		Tables:           tables,
		EventBusName:     "",
		AdminGroup:       "ADMIN",
		SenderEmail:      "noreply@ecnelisfly.com",
		PresignTTL:       time.Hour,
		StatsCacheTTL:    5 * time.Minute,
		LockTTL:          30 * time.Second,
		MetricsNamespace: "EcnelisFly",
		LogLevel:         "info",
		JWTIssuer:        "",
		EnableCORS:       true,
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file
// named by CONFIG_FILE, then environment variables
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// loadFile decodes the YAML file over c. Keys absent from the file keep
// their current value.
func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && err != io.EOF {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.StorageDriver = getEnv("STORAGE_DRIVER", c.StorageDriver)
	for _, logical := range schema.LogicalTables() {
		c.Tables[logical] = getEnv(schema.TableEnvVar(logical), c.Tables[logical])
	}
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.UserPoolID = getEnv("USER_POOL_ID", c.UserPoolID)
	c.AdminGroup = getEnv("ADMIN_GROUP", c.AdminGroup)

	c.SenderEmail = getEnv("SENDER_EMAIL", c.SenderEmail)
	c.SESEnabled = getEnvBool("SES_ENABLED", c.SESEnabled)

	c.SoundBucket = getEnv("SOUND_BUCKET", c.SoundBucket)
	c.PresignTTL = getEnvDuration("PRESIGN_TTL", c.PresignTTL)
	c.StatsCacheTTL = getEnvDuration("STATS_CACHE_TTL", c.StatsCacheTTL)
	c.LockTTL = getEnvDuration("LOCK_TTL", c.LockTTL)
	c.MetricsNamespace = getEnv("METRICS_NAMESPACE", c.MetricsNamespace)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDynamoDB, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.StatsCacheTTL <= 0 {
		return fmt.Errorf("STATS_CACHE_TTL must be positive")
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive")
	}

	if c.IsProduction() {
		if c.StorageDriver != StorageDynamoDB {
			return fmt.Errorf("STORAGE_DRIVER must be %s in production", StorageDynamoDB)
		}
		if c.UserPoolID == "" {
			return fmt.Errorf("USER_POOL_ID is required in production")
		}
		if c.SoundBucket == "" {
			return fmt.Errorf("SOUND_BUCKET is required in production")
		}
		if c.SESEnabled && c.SenderEmail == "" {
			return fmt.Errorf("SENDER_EMAIL is required when SES_ENABLED is set")
		}
	}
	return nil
}

// TableName returns the physical name of a logical table
func (c *Config) TableName(logical string) string {
	if name := c.Tables[logical]; name != "" {
		return name
	}
	return logical
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvDuration accepts Go durations ("90s") or whole seconds ("90")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
