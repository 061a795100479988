package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	OTP           OTPConfig
	SMS           SMSConfig
	Maps          MapsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Eventing      EventingConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GASLINK_APP_ENV" required:"true"`
	Port         string `envconfig:"GASLINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GASLINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GASLINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GASLINK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"GASLINK_DB_DSN"`
	Driver string `envconfig:"GASLINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GASLINK_DB_HOST"`
	LegacyPort     int    `envconfig:"GASLINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GASLINK_DB_USER"`
	LegacyPassword string `envconfig:"GASLINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"GASLINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"GASLINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GASLINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GASLINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GASLINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GASLINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GASLINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GASLINK_REDIS_ADDR"`
	Password     string        `envconfig:"GASLINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"GASLINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GASLINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GASLINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GASLINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GASLINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GASLINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"GASLINK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"GASLINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"GASLINK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"GASLINK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GASLINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GASLINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GASLINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GASLINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GASLINK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	OTPWindow            time.Duration `envconfig:"GASLINK_AUTH_RATE_LIMIT_OTP_WINDOW" default:"1m"`
	OTPPhoneLimit        int           `envconfig:"GASLINK_AUTH_RATE_LIMIT_OTP_PHONE_LIMIT" default:"3"`
	OTPIPLimit           int           `envconfig:"GASLINK_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"20"`
	AdminLoginWindow     time.Duration `envconfig:"GASLINK_AUTH_RATE_LIMIT_ADMIN_LOGIN_WINDOW" default:"1m"`
	AdminLoginEmailLimit int           `envconfig:"GASLINK_AUTH_RATE_LIMIT_ADMIN_LOGIN_EMAIL_LIMIT" default:"5"`
	AdminLoginIPLimit    int           `envconfig:"GASLINK_AUTH_RATE_LIMIT_ADMIN_LOGIN_IP_LIMIT" default:"20"`
}

type OTPConfig struct {
	TTL    time.Duration `envconfig:"GASLINK_OTP_TTL" default:"3m"`
	Length int           `envconfig:"GASLINK_OTP_LENGTH" default:"6"`
}

type SMSConfig struct {
	BaseURL string `envconfig:"GASLINK_SMS_BASE_URL"`
	APIKey  string `envconfig:"GASLINK_SMS_API_KEY"`
	Sender  string `envconfig:"GASLINK_SMS_SENDER"`
}

type MapsConfig struct {
	BaseURL string `envconfig:"GASLINK_MAPS_BASE_URL"`
	APIKey  string `envconfig:"GASLINK_MAPS_API_KEY"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"GASLINK_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"GASLINK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GASLINK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	EventsTopic              string `envconfig:"GASLINK_PUBSUB_EVENTS_TOPIC" default:"gl-domain-events"`
	NotificationSubscription string `envconfig:"GASLINK_PUBSUB_NOTIFICATION_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"GASLINK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"GASLINK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"GASLINK_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"GASLINK_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GASLINK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
