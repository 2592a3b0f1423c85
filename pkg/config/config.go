package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "REELBITES"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Geocode       GeocodeConfig
	Orders        OrdersConfig
	Cron          CronConfig
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
	Env          string `envconfig:"REELBITES_APP_ENV" required:"true"`
	Port         string `envconfig:"REELBITES_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"REELBITES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REELBITES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"REELBITES_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"REELBITES_DB_DSN"`
	Driver string `envconfig:"REELBITES_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"REELBITES_DB_HOST"`
	Port     int    `envconfig:"REELBITES_DB_PORT" default:"5432"`
	User     string `envconfig:"REELBITES_DB_USER"`
	Password string `envconfig:"REELBITES_DB_PASSWORD"`
	Name     string `envconfig:"REELBITES_DB_NAME"`
	SSLMode  string `envconfig:"REELBITES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"REELBITES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REELBITES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REELBITES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REELBITES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if strings.TrimSpace(d.DSN) != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either REELBITES_DB_DSN or host/user/name parts must be set")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	query := url.Values{}
	query.Set("sslmode", d.SSLMode)
	u.RawQuery = query.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"REELBITES_REDIS_URL"`
	Address      string        `envconfig:"REELBITES_REDIS_ADDR"`
	Password     string        `envconfig:"REELBITES_REDIS_PASSWORD"`
	DB           int           `envconfig:"REELBITES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REELBITES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REELBITES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REELBITES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REELBITES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REELBITES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"REELBITES_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"REELBITES_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"REELBITES_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"REELBITES_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"REELBITES_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"REELBITES_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"REELBITES_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"REELBITES_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"REELBITES_ARGON_KEY_LEN" default:"32"`
}

// AuthRateLimitConfig throttles the credential endpoints. A zero window
// disables the corresponding policy.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"REELBITES_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int64         `envconfig:"REELBITES_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int64         `envconfig:"REELBITES_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"REELBITES_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int64         `envconfig:"REELBITES_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int64         `envconfig:"REELBITES_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type GeocodeConfig struct {
	APIKey  string `envconfig:"REELBITES_GEOCODE_API_KEY"`
	BaseURL string `envconfig:"REELBITES_GEOCODE_BASE_URL"`
}

type OrdersConfig struct {
	// PriceToleranceCents bounds how far the client-declared total may drift
	// from the server-computed total before the order is rejected.
	PriceToleranceCents int64 `envconfig:"REELBITES_ORDER_PRICE_TOLERANCE_CENTS" default:"1"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"REELBITES_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"REELBITES_CRON_LOCK_TTL" default:"55m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"REELBITES_AUTO_MIGRATE" default:"false"`
}
