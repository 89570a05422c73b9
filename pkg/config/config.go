package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "orderbridge"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Zinc         ZincConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ORDERBRIDGE_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERBRIDGE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ORDERBRIDGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDERBRIDGE_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"ORDERBRIDGE_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ORDERBRIDGE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"ORDERBRIDGE_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"ORDERBRIDGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORDERBRIDGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORDERBRIDGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDERBRIDGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERBRIDGE_REDIS_URL"`
	Address      string        `envconfig:"ORDERBRIDGE_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERBRIDGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERBRIDGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERBRIDGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERBRIDGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERBRIDGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERBRIDGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERBRIDGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ZincConfig holds everything needed to talk to the upstream fulfillment API
// and to receive its callbacks.
type ZincConfig struct {
	BaseURL       string        `envconfig:"ORDERBRIDGE_ZINC_BASE_URL" default:"https://api.zinc.io"`
	ClientToken   string        `envconfig:"ORDERBRIDGE_ZINC_CLIENT_TOKEN" required:"true"`
	WebhookSecret string        `envconfig:"ORDERBRIDGE_ZINC_WEBHOOK_SECRET" required:"true"`
	PollSecret    string        `envconfig:"ORDERBRIDGE_POLL_SECRET" required:"true"`
	PublicBaseURL string        `envconfig:"ORDERBRIDGE_PUBLIC_BASE_URL" required:"true"`
	ProductID     string        `envconfig:"ORDERBRIDGE_ZINC_PRODUCT_ID" default:"B002YM4WME"`
	MaxPriceCents int           `envconfig:"ORDERBRIDGE_ZINC_MAX_PRICE_CENTS" default:"1000000"`
	HTTPTimeout   time.Duration `envconfig:"ORDERBRIDGE_ZINC_HTTP_TIMEOUT" default:"30s"`
	AddaxEnabled  bool          `envconfig:"ORDERBRIDGE_ADDAX_ENABLED" default:"false"`
}

type CronConfig struct {
	PollInterval time.Duration `envconfig:"ORDERBRIDGE_CRON_POLL_INTERVAL" default:"5m"`
	// InitiatedTTL is how long an order may sit at `initiated` with no
	// upstream reference before the expiry job marks it failed.
	InitiatedTTL time.Duration `envconfig:"ORDERBRIDGE_ORDER_INITIATED_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ORDERBRIDGE_AUTO_MIGRATE" default:"false"`
}
