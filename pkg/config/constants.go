package config

// EnvPrefix namespaces every variable read by envconfig.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres   = "postgres"
	DriverSQLite     = "sqlite"
	DefaultSQLiteDSN = "storefront.db"
)

const (
	EnvAppEnv            = "STOREFRONT_APP_ENV"
	EnvPort              = "STOREFRONT_APP_PORT"
	EnvDBDSN             = "STOREFRONT_DB_DSN"
	EnvDBHost            = "STOREFRONT_DB_HOST"
	EnvDBUser            = "STOREFRONT_DB_USER"
	EnvDBName            = "STOREFRONT_DB_NAME"
	EnvDBPassword        = "STOREFRONT_DB_PASSWORD"
	EnvRedisURL          = "STOREFRONT_REDIS_URL"
	EnvSessionSecret     = "STOREFRONT_SESSION_SECRET"
	EnvSessionTTLMinutes = "STOREFRONT_SESSION_TTL_MINUTES"
	EnvSessionCookieName = "STOREFRONT_SESSION_COOKIE_NAME"
	EnvAdminSetupSecret  = "STOREFRONT_ADMIN_SETUP_SECRET"
	EnvUseSQLite         = "STOREFRONT_USE_SQLITE"
	EnvMaxUploadMB       = "STOREFRONT_MAX_UPLOAD_MB"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
