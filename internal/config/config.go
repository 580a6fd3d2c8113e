package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DebugModeEnv is the environment variable for debug mode.
	DebugModeEnv = "DEBUG_MODE"

	// DBHostEnv is the environment variable for database host.
	DBHostEnv = "DB_HOST"

	// DBPortEnv is the environment variable for database port.
	DBPortEnv = "DB_PORT"

	// DBUserEnv is the environment variable for database user.
	DBUserEnv = "DB_USER"

	// DBPassEnv is the environment variable for database password.
	DBPassEnv = "DB_PASS"

	// DBNameEnv is the environment variable for database name.
	DBNameEnv = "DB_NAME"

	// MigrationsPathEnv is the golang-migrate source URL.
	MigrationsPathEnv = "MIGRATIONS_PATH"

	// HTTPServerPortEnv is the environment variable for HTTP server port.
	HTTPServerPortEnv = "HTTP_SERVER_PORT"

	// MetricsServerPortEnv is the environment variable for metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// OperatorIDEnv is the chat user id allowed to manage the catalog.
	OperatorIDEnv = "OPERATOR_ID"

	// EnvFilePath is the environment variable for .env file path (only for local/test environment).
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"

	// AWSRegionEnv is the environment variable for AWS region.
	AWSRegionEnv = "AWS_REGION"

	// AWSEndpointEnv is the environment variable for AWS endpoint.
	AWSEndpointEnv = "AWS_ENDPOINT"

	// SQSInboundQueueURLEnv is the queue the chat gateway writes operator messages to.
	SQSInboundQueueURLEnv = "SQS_INBOUND_QUEUE_URL"

	// SQSOutboundQueueURLEnv is the queue replies are published to.
	SQSOutboundQueueURLEnv = "SQS_OUTBOUND_QUEUE_URL"

	SessionStoreEnv     = "SESSION_STORE"
	SessionCacheSizeEnv = "SESSION_CACHE_SIZE"
	RedisAddrEnv        = "REDIS_ADDR"
	RedisPasswordEnv    = "REDIS_PASSWORD"
	RedisDBEnv          = "REDIS_DB"

	MonitorIntervalEnv = "MONITOR_INTERVAL"
	MonitorBackoffEnv  = "MONITOR_BACKOFF"
	FetchTimeoutEnv    = "FETCH_TIMEOUT"

	DefaultMigrationsPath   = "file://migrations"
	DefaultSessionCacheSize = 128
	DefaultMonitorInterval  = time.Hour
	DefaultMonitorBackoff   = 5 * time.Minute
	DefaultFetchTimeout     = 30 * time.Second

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")
)

// Config represents the application configuration.
type Config struct {
	DebugMode     bool
	Database      DB
	HTTPServer    Server
	MetricsServer Server
	OperatorID    int64
	AWS           AWSConfig
	Session       Session
	Monitor       Monitor
	FetchTimeout  time.Duration
}

// AWSConfig represents AWS-specific configuration settings.
type AWSConfig struct {
	Region              string
	Endpoint            string
	SQSInboundQueueURL  string
	SQSOutboundQueueURL string
}

// ChatTransportEnabled reports whether operator messages are read from SQS.
func (a AWSConfig) ChatTransportEnabled() bool {
	return a.SQSInboundQueueURL != ""
}

// DB represents database configuration settings.
type DB struct {
	Host           string
	User           string
	Password       string
	Name           string
	Port           string
	MigrationsPath string
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

// Session selects and configures the conversation session store.
type Session struct {
	Store     string
	CacheSize int
	Redis     Redis
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Monitor holds the scheduler cadence.
type Monitor struct {
	Interval time.Duration
	Backoff  time.Duration
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		_, err := strconv.Atoi(value)
		if err != nil {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.String("error", err.Error()))
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func allPositive(keyValues map[string]time.Duration) error {
	for key, value := range keyValues {
		if value <= 0 {
			slog.Error("configuration validation failed", slog.String("key", key), slog.Duration("value", value), slog.String("error", "must be positive"))
			return fmt.Errorf("non-positive duration for key: %s", key)
		}
	}
	return nil
}

func (c *Config) validate() error {
	// Validate database configuration
	if err := allNonEmpty(map[string]string{
		DBHostEnv: c.Database.Host,
		DBUserEnv: c.Database.User,
		DBNameEnv: c.Database.Name,
	}); err != nil {
		return fmt.Errorf("database configuration incomplete: %w", err)
	}

	// Validate server ports
	if err := allNonEmpty(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("server port configuration incomplete: %w", err)
	}

	// Validate port numbers
	if err := allNumbers(map[string]string{
		DBPortEnv:            c.Database.Port,
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	if c.OperatorID == 0 {
		return fmt.Errorf("operator configuration incomplete: %w for key: %s", ErrMissingConfig, OperatorIDEnv)
	}

	if c.AWS.ChatTransportEnabled() {
		if err := allNonEmpty(map[string]string{
			SQSOutboundQueueURLEnv: c.AWS.SQSOutboundQueueURL,
		}); err != nil {
			return fmt.Errorf("AWS configuration incomplete: %w", err)
		}
	}

	switch c.Session.Store {
	case SessionStoreMemory:
		if c.Session.CacheSize <= 0 {
			return fmt.Errorf("invalid session cache size: %d", c.Session.CacheSize)
		}
	case SessionStoreRedis:
		if err := allNonEmpty(map[string]string{
			RedisAddrEnv: c.Session.Redis.Addr,
		}); err != nil {
			return fmt.Errorf("redis configuration incomplete: %w", err)
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}

	if err := allPositive(map[string]time.Duration{
		MonitorIntervalEnv: c.Monitor.Interval,
		MonitorBackoffEnv:  c.Monitor.Backoff,
		FetchTimeoutEnv:    c.FetchTimeout,
	}); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	return nil
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnvOrDefault(name, defaultValue string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue, nil
	}
	if err := allNumbers(map[string]string{name: raw}); err != nil {
		return 0, err
	}
	val, _ := strconv.Atoi(raw)
	return val, nil
}

func getEnvAsDuration(name string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue, nil
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		slog.Error("configuration validation failed", slog.String("key", name), slog.String("value", raw), slog.String("error", err.Error()))
		return 0, fmt.Errorf("invalid duration for key %s: %w", name, err)
	}
	return val, nil
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	envPath := os.Getenv(EnvFilePath)
	if envPath == "" {
		envPath = DefaultEnvFilePath
	}
	err := ApplyEnvFile(envPath)
	if err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Info("failed to load from .env", slog.Any("err", err))
	}

	operatorRaw := os.Getenv(OperatorIDEnv)
	if err := allNonEmpty(map[string]string{OperatorIDEnv: operatorRaw}); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	operatorID, err := strconv.ParseInt(operatorRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid number for key %s: %w", OperatorIDEnv, err)
	}

	cacheSize, err := getEnvAsInt(SessionCacheSizeEnv, DefaultSessionCacheSize)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	redisDB, err := getEnvAsInt(RedisDBEnv, 0)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	interval, err := getEnvAsDuration(MonitorIntervalEnv, DefaultMonitorInterval)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	backoff, err := getEnvAsDuration(MonitorBackoffEnv, DefaultMonitorBackoff)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	fetchTimeout, err := getEnvAsDuration(FetchTimeoutEnv, DefaultFetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	conf := &Config{
		DebugMode: getEnvAsBool(DebugModeEnv, false),
		Database: DB{
			Host:           os.Getenv(DBHostEnv),
			User:           os.Getenv(DBUserEnv),
			Password:       os.Getenv(DBPassEnv),
			Name:           os.Getenv(DBNameEnv),
			Port:           os.Getenv(DBPortEnv),
			MigrationsPath: getEnvOrDefault(MigrationsPathEnv, DefaultMigrationsPath),
		},
		HTTPServer: Server{
			Port: os.Getenv(HTTPServerPortEnv),
		},
		MetricsServer: Server{
			Port: os.Getenv(MetricsServerPortEnv),
		},
		OperatorID: operatorID,
		AWS: AWSConfig{
			Region:              os.Getenv(AWSRegionEnv),
			Endpoint:            os.Getenv(AWSEndpointEnv),
			SQSInboundQueueURL:  os.Getenv(SQSInboundQueueURLEnv),
			SQSOutboundQueueURL: os.Getenv(SQSOutboundQueueURLEnv),
		},
		Session: Session{
			Store:     getEnvOrDefault(SessionStoreEnv, SessionStoreMemory),
			CacheSize: cacheSize,
			Redis: Redis{
				Addr:     os.Getenv(RedisAddrEnv),
				Password: os.Getenv(RedisPasswordEnv),
				DB:       redisDB,
			},
		},
		Monitor: Monitor{
			Interval: interval,
			Backoff:  backoff,
		},
		FetchTimeout: fetchTimeout,
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}
