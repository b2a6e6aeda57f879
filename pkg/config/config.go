package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is empty because every field carries a fully qualified tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "GLOWMART_DB_DSN"
	EnvDBHost = "GLOWMART_DB_HOST"
	EnvDBUser = "GLOWMART_DB_USER"
	EnvDBName = "GLOWMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"GLOWMART_APP_ENV" required:"true"`
	Port         string `envconfig:"GLOWMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GLOWMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GLOWMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GLOWMART_DB_DSN"`
	Driver string `envconfig:"GLOWMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GLOWMART_DB_HOST"`
	LegacyPort     int    `envconfig:"GLOWMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GLOWMART_DB_USER"`
	LegacyPassword string `envconfig:"GLOWMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"GLOWMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"GLOWMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GLOWMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GLOWMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GLOWMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GLOWMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets the embedded database.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"GLOWMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GLOWMART_REDIS_ADDR"`
	Password     string        `envconfig:"GLOWMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"GLOWMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GLOWMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GLOWMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GLOWMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GLOWMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GLOWMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"GLOWMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"GLOWMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"GLOWMART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"GLOWMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// CartConfig names the durable cart slots and the change-notification channel.
type CartConfig struct {
	SlotKey       string `envconfig:"GLOWMART_CART_SLOT_KEY" default:"cart:items"`
	DirectSlotKey string `envconfig:"GLOWMART_CART_DIRECT_SLOT_KEY" default:"cart:direct"`
	Channel       string `envconfig:"GLOWMART_CART_CHANNEL" default:"cart:changed"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GLOWMART_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.IsSQLite() {
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
