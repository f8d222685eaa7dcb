package config

const (
	EnvPrefix = "ORDERUP"

	AppEnvDev  = "development"
	AppEnvProd = "production"
	AppEnvTest = "test"

	DriverPostgres   = "postgres"
	DriverSQLite     = "sqlite"
	DefaultSQLiteDSN = "file:orderup.db?_foreign_keys=on"

	MinJWTSecretLength = 32
)

const (
	EnvAppEnv              = "ORDERUP_APP_ENV"
	EnvPort                = "ORDERUP_APP_PORT"
	EnvAppVersion          = "ORDERUP_APP_VERSION"
	EnvLogLevel            = "ORDERUP_LOG_LEVEL"
	EnvExposeErrorDetails  = "ORDERUP_EXPOSE_ERROR_DETAILS"
	EnvCORSOrigins         = "ORDERUP_CORS_ORIGINS"
	EnvDBDSN               = "ORDERUP_DB_DSN"
	EnvDBHost              = "ORDERUP_DB_HOST"
	EnvDBUser              = "ORDERUP_DB_USER"
	EnvDBName              = "ORDERUP_DB_NAME"
	EnvRedisURL            = "ORDERUP_REDIS_URL"
	EnvJWTSecret           = "ORDERUP_JWT_SECRET"
	EnvJWTRefreshSecret    = "ORDERUP_JWT_REFRESH_SECRET"
	EnvJWTExpiresIn        = "ORDERUP_JWT_EXPIRES_IN"
	EnvJWTRefreshExpiresIn = "ORDERUP_JWT_REFRESH_EXPIRES_IN"
	EnvRateLimitWindow     = "ORDERUP_RATE_LIMIT_WINDOW"
	EnvRateLimitMax        = "ORDERUP_RATE_LIMIT_MAX_REQUESTS"
	EnvUseSQLite           = "ORDERUP_USE_SQLITE"
	EnvAutoMigrate         = "ORDERUP_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
