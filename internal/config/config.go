package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Session  SessionConfig
	Media    MediaConfig
	Reset    ResetConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	MaxConns       int32         `env:"POSTGRES_MAX_CONNS" env-default:"10"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" env-default:"session_id"`
	TTL        time.Duration `env:"SESSION_TTL" env-default:"720h"`
	Secure     bool          `env:"SESSION_COOKIE_SECURE" env-default:"false"`
}

type MediaConfig struct {
	Root          string `env:"MEDIA_ROOT" env-default:"./media"`
	URLPrefix     string `env:"MEDIA_URL_PREFIX" env-default:"/media"`
	MaxUploadSize int64  `env:"MEDIA_MAX_UPLOAD_SIZE" env-default:"5242880"`
}

type ResetConfig struct {
	Issuer     string        `env:"RESET_TOKEN_ISSUER" env-default:"go-todo-web"`
	SigningKey string        `env:"RESET_TOKEN_SIGNING_KEY" env-required:"true"`
	TokenTTL   time.Duration `env:"RESET_TOKEN_TTL" env-default:"1h"`
}
