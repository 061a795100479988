package config

// EnvPrefix is the envconfig prefix shared by every gaslink binary.
const EnvPrefix = "GASLINK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "GASLINK_DB_DSN"
	EnvDBHost = "GASLINK_DB_HOST"
	EnvDBUser = "GASLINK_DB_USER"
	EnvDBName = "GASLINK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
