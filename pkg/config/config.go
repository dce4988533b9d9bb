package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Quotes       QuotesConfig
	Mail         MailConfig
	GCP          GCPConfig
	BigQuery     BigQueryConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Maintenance  MaintenanceConfig
	Idempotency  IdempotencyConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if cfg.App.IsProd() && (cfg.FeatureFlags.UseSQLite || strings.EqualFold(cfg.DB.Driver, "sqlite")) {
		return nil, fmt.Errorf("sqlite is not allowed when %s=%s", EnvAppEnv, cfg.App.Env)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DETAILPRO_APP_ENV" required:"true"`
	Port         string `envconfig:"DETAILPRO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DETAILPRO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DETAILPRO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DETAILPRO_DB_DSN"`
	Driver string `envconfig:"DETAILPRO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DETAILPRO_DB_HOST"`
	Port     int    `envconfig:"DETAILPRO_DB_PORT" default:"5432"`
	User     string `envconfig:"DETAILPRO_DB_USER"`
	Password string `envconfig:"DETAILPRO_DB_PASSWORD"`
	Name     string `envconfig:"DETAILPRO_DB_NAME"`
	SSLMode  string `envconfig:"DETAILPRO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DETAILPRO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DETAILPRO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DETAILPRO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DETAILPRO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DETAILPRO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DETAILPRO_REDIS_ADDR"`
	Password     string        `envconfig:"DETAILPRO_REDIS_PASSWORD"`
	DB           int           `envconfig:"DETAILPRO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DETAILPRO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DETAILPRO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DETAILPRO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DETAILPRO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DETAILPRO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DETAILPRO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DETAILPRO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DETAILPRO_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DETAILPRO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DETAILPRO_AUTO_MIGRATE" default:"false"`
}

type QuotesConfig struct {
	// PublicBaseURL is the origin customers open share links on, e.g. https://app.detailpro.io.
	PublicBaseURL       string `envconfig:"DETAILPRO_PUBLIC_BASE_URL" required:"true"`
	DefaultBusinessName string `envconfig:"DETAILPRO_DEFAULT_BUSINESS_NAME" default:"Your Detailer"`
	ListMaxLimit        int    `envconfig:"DETAILPRO_QUOTES_LIST_MAX_LIMIT" default:"100"`
}

// PublicQuoteURL builds the customer-facing link for the provided share id.
func (q QuotesConfig) PublicQuoteURL(shareID string) string {
	base := strings.TrimRight(strings.TrimSpace(q.PublicBaseURL), "/")
	return base + "/q/" + url.PathEscape(shareID)
}

type MailConfig struct {
	Host        string        `envconfig:"DETAILPRO_SMTP_HOST"`
	Port        int           `envconfig:"DETAILPRO_SMTP_PORT" default:"587"`
	Username    string        `envconfig:"DETAILPRO_SMTP_USERNAME"`
	Password    string        `envconfig:"DETAILPRO_SMTP_PASSWORD"`
	FromAddress string        `envconfig:"DETAILPRO_SMTP_FROM_ADDRESS" default:"quotes@detailpro.local"`
	FromName    string        `envconfig:"DETAILPRO_SMTP_FROM_NAME" default:"DetailPro"`
	Timeout     time.Duration `envconfig:"DETAILPRO_SMTP_TIMEOUT" default:"10s"`
}

// Enabled reports whether an SMTP relay has been configured.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.Host) != ""
}

type GCPConfig struct {
	ProjectID              string `envconfig:"DETAILPRO_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"DETAILPRO_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"DETAILPRO_GOOGLE_APPLICATION_CREDENTIALS"`
}

// BigQueryConfig names the dataset quote events are streamed into.
type BigQueryConfig struct {
	Dataset          string `envconfig:"DETAILPRO_BIGQUERY_DATASET" default:"detailpro"`
	QuoteEventsTable string `envconfig:"DETAILPRO_BIGQUERY_QUOTE_EVENTS_TABLE" default:"quote_events"`
}

type PubSubConfig struct {
	QuotesTopic             string `envconfig:"DETAILPRO_PUBSUB_QUOTES_TOPIC" default:"detailpro-quote-events"`
	OwnerAlertsSubscription string `envconfig:"DETAILPRO_PUBSUB_OWNER_ALERTS_SUBSCRIPTION" default:"detailpro-owner-alerts"`
	AnalyticsSubscription   string `envconfig:"DETAILPRO_PUBSUB_ANALYTICS_SUBSCRIPTION" default:"detailpro-quote-analytics"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"DETAILPRO_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"DETAILPRO_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"DETAILPRO_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// MaintenanceConfig drives the scheduled maintenance worker.
type MaintenanceConfig struct {
	Interval            time.Duration `envconfig:"DETAILPRO_MAINTENANCE_INTERVAL" default:"1h"`
	LockTTL             time.Duration `envconfig:"DETAILPRO_MAINTENANCE_LOCK_TTL" default:"30m"`
	OutboxRetentionDays int           `envconfig:"DETAILPRO_OUTBOX_RETENTION_DAYS" default:"30"`
	DLQRetentionDays    int           `envconfig:"DETAILPRO_OUTBOX_DLQ_RETENTION_DAYS" default:"90"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"DETAILPRO_IDEMPOTENCY_TTL" default:"24h"`
}

// RateLimitConfig throttles the unauthenticated share-link surface per client IP.
type RateLimitConfig struct {
	PublicWindow time.Duration `envconfig:"DETAILPRO_PUBLIC_RATE_LIMIT_WINDOW" default:"1m"`
	PublicLimit  int           `envconfig:"DETAILPRO_PUBLIC_RATE_LIMIT" default:"60"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"DETAILPRO_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	var missing []string
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, key := range dsnPartEnvVars {
		if parts[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
