package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "FEASTLINE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Env variable names referenced from error messages and tests.
const (
	EnvAppEnv    = "FEASTLINE_APP_ENV"
	EnvPort      = "FEASTLINE_APP_PORT"
	EnvDBDSN     = "FEASTLINE_DB_DSN"
	EnvDBHost    = "FEASTLINE_DB_HOST"
	EnvDBUser    = "FEASTLINE_DB_USER"
	EnvDBName    = "FEASTLINE_DB_NAME"
	EnvRedisURL  = "FEASTLINE_REDIS_URL"
	EnvJWTSecret = "FEASTLINE_JWT_SECRET"
	EnvJWTIssuer = "FEASTLINE_JWT_ISSUER"
	EnvJWTExp    = "FEASTLINE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	Fees  FeesConfig
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
	Env          string `envconfig:"FEASTLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"FEASTLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FEASTLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FEASTLINE_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"FEASTLINE_AUTO_MIGRATE" default:"false"`

	CORSOrigins []string `envconfig:"FEASTLINE_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FEASTLINE_DB_DSN"`
	Driver string `envconfig:"FEASTLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FEASTLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"FEASTLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FEASTLINE_DB_USER"`
	LegacyPassword string `envconfig:"FEASTLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FEASTLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FEASTLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FEASTLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FEASTLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FEASTLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FEASTLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FEASTLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FEASTLINE_REDIS_ADDR"`
	Password     string        `envconfig:"FEASTLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FEASTLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FEASTLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FEASTLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FEASTLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FEASTLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FEASTLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FEASTLINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FEASTLINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FEASTLINE_JWT_EXPIRATION_MINUTES" required:"true"`
}

// FeesConfig holds the built-in fallback used when no fee row exists at all.
type FeesConfig struct {
	DefaultDeliveryFee string `envconfig:"FEASTLINE_DEFAULT_DELIVERY_FEE" default:"30.00"`
	DefaultPlatformFee string `envconfig:"FEASTLINE_DEFAULT_PLATFORM_FEE" default:"5.00"`
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
