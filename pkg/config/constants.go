package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "ORDERAPP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "ORDERAPP_APP_ENV"
	EnvPort     = "ORDERAPP_APP_PORT"
	EnvRedisURL = "ORDERAPP_REDIS_URL"

	EnvDBDSN  = "ORDERAPP_DB_DSN"
	EnvDBHost = "ORDERAPP_DB_HOST"
	EnvDBUser = "ORDERAPP_DB_USER"
	EnvDBName = "ORDERAPP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
