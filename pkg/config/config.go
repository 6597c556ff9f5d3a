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
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Marketplace   MarketplaceConfig
	Manifest      ManifestConfig
	Returns       ReturnsConfig
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
	Env          string `envconfig:"ORDERAPP_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERAPP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ORDERAPP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDERAPP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind        string   `envconfig:"ORDERAPP_SERVICE_KIND" default:"api"`
	CORSOrigins []string `envconfig:"ORDERAPP_CORS_ORIGINS"`
}

type DBConfig struct {
	DSN    string `envconfig:"ORDERAPP_DB_DSN"`
	Driver string `envconfig:"ORDERAPP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ORDERAPP_DB_HOST"`
	LegacyPort     int    `envconfig:"ORDERAPP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ORDERAPP_DB_USER"`
	LegacyPassword string `envconfig:"ORDERAPP_DB_PASSWORD"`
	LegacyName     string `envconfig:"ORDERAPP_DB_NAME"`
	LegacySSLMode  string `envconfig:"ORDERAPP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ORDERAPP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORDERAPP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORDERAPP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDERAPP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERAPP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ORDERAPP_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERAPP_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERAPP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERAPP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERAPP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERAPP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERAPP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERAPP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	TTLHours int `envconfig:"ORDERAPP_SESSION_TTL_HOURS" default:"8"`
}

// TTL returns the session lifetime configured in hours.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLHours <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(s.TTLHours) * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ORDERAPP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ORDERAPP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ORDERAPP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ORDERAPP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ORDERAPP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ORDERAPP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"ORDERAPP_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ORDERAPP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ORDERAPP_AUTO_MIGRATE" default:"false"`
}

type MarketplaceConfig struct {
	BaseURL   string        `envconfig:"ORDERAPP_MARKET_BASE_URL" default:"https://api.partner.market.yandex.ru"`
	UserAgent string        `envconfig:"ORDERAPP_MARKET_USER_AGENT" default:"order-app/1.0"`
	Timeout   time.Duration `envconfig:"ORDERAPP_MARKET_TIMEOUT" default:"30s"`
	PageSize  int           `envconfig:"ORDERAPP_MARKET_PAGE_SIZE" default:"50"`

	// APIKey authenticates calls for accounts without a per-user key.
	APIKey string `envconfig:"ORDERAPP_MARKET_API_KEY"`
}

type ManifestConfig struct {
	ArtifactsDir   string        `envconfig:"ORDERAPP_ARTIFACTS_DIR" default:"artifacts"`
	RetentionHours int           `envconfig:"ORDERAPP_ARTIFACT_RETENTION_HOURS" default:"72"`
	SweepInterval  time.Duration `envconfig:"ORDERAPP_ARTIFACT_SWEEP_INTERVAL" default:"1h"`
}

// Retention returns how long temporary artifacts are kept on disk.
func (m ManifestConfig) Retention() time.Duration {
	if m.RetentionHours <= 0 {
		return 72 * time.Hour
	}
	return time.Duration(m.RetentionHours) * time.Hour
}

type ReturnsConfig struct {
	StrictAccept bool `envconfig:"ORDERAPP_RETURNS_STRICT_ACCEPT" default:"false"`
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
