package config

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "DETAILPRO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv        = "DETAILPRO_APP_ENV"
	EnvPort          = "DETAILPRO_APP_PORT"
	EnvLogLevel      = "DETAILPRO_LOG_LEVEL"
	EnvDBDSN         = "DETAILPRO_DB_DSN"
	EnvDBHost        = "DETAILPRO_DB_HOST"
	EnvDBUser        = "DETAILPRO_DB_USER"
	EnvDBName        = "DETAILPRO_DB_NAME"
	EnvDBPassword    = "DETAILPRO_DB_PASSWORD"
	EnvRedisURL      = "DETAILPRO_REDIS_URL"
	EnvJWTSecret     = "DETAILPRO_JWT_SECRET"
	EnvJWTIssuer     = "DETAILPRO_JWT_ISSUER"
	EnvJWTExpMins    = "DETAILPRO_JWT_EXPIRATION_MINUTES"
	EnvPublicBaseURL = "DETAILPRO_PUBLIC_BASE_URL"
	EnvSMTPHost      = "DETAILPRO_SMTP_HOST"
	EnvGCPProjectID  = "DETAILPRO_GCP_PROJECT_ID"
	EnvQuotesTopic   = "DETAILPRO_PUBSUB_QUOTES_TOPIC"
)

var dsnPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
