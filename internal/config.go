package internal

import (
	"net"
	"strconv"
	"time"

	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/config"
	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/logger"
)

// Config holds the server settings read from the environment.
type Config struct {
	// Addr overrides Port when set, e.g. "127.0.0.1:9000".
	Addr string `env:"HTTP_ADDR"`
	Port int    `env:"PORT" envDefault:"8080"`

	DefaultOutputContentType string        `env:"DEFAULT_OUTPUT_CONTENT_TYPE" envDefault:"application/json"`
	ShutdownTimeout          time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	BodyLimit                int64         `env:"BODY_LIMIT" envDefault:"1048576"`

	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogComponent string `env:"LOG_COMPONENT" envDefault:"webserver"`

	Sentry logger.SentryConfig

	CORSAllowOrigins     []string `env:"CORS_ALLOW_ORIGINS" envSeparator:","`
	CORSAllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
}

const (
	defaultPort            = 8080
	defaultBodyLimit       = 1 << 20
	defaultShutdownTimeout = 30 * time.Second
)

// DefaultConfig returns the configuration used when the environment is not consulted.
func DefaultConfig() Config {
	return Config{
		Port:                     defaultPort,
		DefaultOutputContentType: "application/json",
		ShutdownTimeout:          defaultShutdownTimeout,
		BodyLimit:                defaultBodyLimit,
		LogLevel:                 "info",
		LogComponent:             "webserver",
		CORSAllowCredentials:     true,
	}
}

// LoadConfig reads Config from the environment and an optional .env file.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ListenAddr returns the TCP address to bind.
func (c Config) ListenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort("", strconv.Itoa(port))
}

// withDefaults fills zero values that would make the server unusable.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DefaultOutputContentType == "" {
		c.DefaultOutputContentType = d.DefaultOutputContentType
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.BodyLimit <= 0 {
		c.BodyLimit = d.BodyLimit
	}
	if c.LogComponent == "" {
		c.LogComponent = d.LogComponent
	}
	return c
}
