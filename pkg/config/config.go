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
	HTTP          HTTPConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	RateLimit     RateLimitConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.App.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.JWT.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env                string `envconfig:"ORDERUP_APP_ENV" required:"true"`
	Port               string `envconfig:"ORDERUP_APP_PORT" default:"3000"`
	Version            string `envconfig:"ORDERUP_APP_VERSION" default:"1.0.0"`
	LogLevel           string `envconfig:"ORDERUP_LOG_LEVEL" default:"info"`
	LogFormat          string `envconfig:"ORDERUP_LOG_FORMAT" default:"json"`
	LogWarnStack       bool   `envconfig:"ORDERUP_LOG_WARN_STACK" default:"false"`
	ExposeErrorDetails bool   `envconfig:"ORDERUP_EXPOSE_ERROR_DETAILS" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

func (a AppConfig) IsTest() bool {
	return strings.EqualFold(a.Env, AppEnvTest)
}

// ErrorDetailsEnabled reports whether error responses may carry a debug object.
// Production never does, whatever the flag says.
func (a AppConfig) ErrorDetailsEnabled() bool {
	return a.ExposeErrorDetails && !a.IsProd()
}

func (a *AppConfig) normalize() error {
	switch strings.ToLower(strings.TrimSpace(a.Env)) {
	case AppEnvDev, "dev":
		a.Env = AppEnvDev
	case AppEnvProd, "prod":
		a.Env = AppEnvProd
	case AppEnvTest:
		a.Env = AppEnvTest
	default:
		return fmt.Errorf("%s must be one of %s, %s, %s (got %q)", EnvAppEnv, AppEnvDev, AppEnvProd, AppEnvTest, a.Env)
	}
	return nil
}

type HTTPConfig struct {
	CORSOrigins     []string      `envconfig:"ORDERUP_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:3001"`
	MaxBodyBytes    int64         `envconfig:"ORDERUP_MAX_BODY_BYTES" default:"10485760"`
	ReadTimeout     time.Duration `envconfig:"ORDERUP_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"ORDERUP_HTTP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"ORDERUP_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	// TrustProxy takes the client address from forwarding headers. Enable it only
	// behind a proxy that overwrites them.
	TrustProxy      bool          `envconfig:"ORDERUP_HTTP_TRUST_PROXY" default:"false"`
}

type DBConfig struct {
	DSN    string `envconfig:"ORDERUP_DB_DSN"`
	Driver string `envconfig:"ORDERUP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ORDERUP_DB_HOST"`
	LegacyPort     int    `envconfig:"ORDERUP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ORDERUP_DB_USER"`
	LegacyPassword string `envconfig:"ORDERUP_DB_PASSWORD"`
	LegacyName     string `envconfig:"ORDERUP_DB_NAME"`
	LegacySSLMode  string `envconfig:"ORDERUP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ORDERUP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORDERUP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORDERUP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDERUP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional. With neither URL nor Address set the API runs
// without rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"ORDERUP_REDIS_URL"`
	Address      string        `envconfig:"ORDERUP_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERUP_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERUP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERUP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERUP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERUP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERUP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERUP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	AccessSecret  string        `envconfig:"ORDERUP_JWT_SECRET" required:"true"`
	RefreshSecret string        `envconfig:"ORDERUP_JWT_REFRESH_SECRET" required:"true"`
	Issuer        string        `envconfig:"ORDERUP_JWT_ISSUER" default:"orderup"`
	AccessTTL     time.Duration `envconfig:"ORDERUP_JWT_EXPIRES_IN" default:"15m"`
	RefreshTTL    time.Duration `envconfig:"ORDERUP_JWT_REFRESH_EXPIRES_IN" default:"168h"`
}

func (j JWTConfig) validate() error {
	if len(j.AccessSecret) < MinJWTSecretLength {
		return fmt.Errorf("%s must be at least %d characters", EnvJWTSecret, MinJWTSecretLength)
	}
	if len(j.RefreshSecret) < MinJWTSecretLength {
		return fmt.Errorf("%s must be at least %d characters", EnvJWTRefreshSecret, MinJWTSecretLength)
	}
	if j.AccessSecret == j.RefreshSecret {
		return fmt.Errorf("%s and %s must differ", EnvJWTSecret, EnvJWTRefreshSecret)
	}
	if j.AccessTTL <= 0 || j.RefreshTTL <= 0 {
		return fmt.Errorf("%s and %s must be positive", EnvJWTExpiresIn, EnvJWTRefreshExpiresIn)
	}
	return nil
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ORDERUP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ORDERUP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ORDERUP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ORDERUP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ORDERUP_ARGON_KEY_LEN" default:"32"`
}

// RateLimitConfig drives the global per-IP fixed window gate.
type RateLimitConfig struct {
	Window      time.Duration `envconfig:"ORDERUP_RATE_LIMIT_WINDOW" default:"15m"`
	MaxRequests int           `envconfig:"ORDERUP_RATE_LIMIT_MAX_REQUESTS" default:"100"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ORDERUP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ORDERUP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ORDERUP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ORDERUP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ORDERUP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ORDERUP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ORDERUP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ORDERUP_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
		if db.DSN == "" {
			db.DSN = DefaultSQLiteDSN
		}
		return nil
	}
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
