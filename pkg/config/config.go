// Package config loads typed configuration from environment variables.
//
// A .env file in the working directory is loaded once, on first use, without
// overriding variables that are already set. Each configuration type is parsed once
// and cached for subsequent calls:
//
//	type ServerConfig struct {
//		Port int `env:"PORT" envDefault:"8080"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvFile is the dotenv file loaded before the first parse.
var EnvFile = ".env"

var (
	dotenvOnce sync.Once
	dotenvErr  error
	cache      sync.Map // reflect.Type -> any (value of T)
)

func loadDotenv() error {
	dotenvOnce.Do(func() {
		if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			dotenvErr = fmt.Errorf("config: load %s: %w", EnvFile, err)
		}
	})
	return dotenvErr
}

// Load parses environment variables into cfg.
// The result is cached per type: later calls copy the cached value into cfg.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config: nil destination")
	}

	key := reflect.TypeFor[T]()
	if v, ok := cache.Load(key); ok {
		*cfg = v.(T)
		return nil
	}

	if err := loadDotenv(); err != nil {
		return err
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", key, err)
	}

	cache.Store(key, *cfg)
	return nil
}

// MustLoad is like Load but panics on error. Useful during startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset drops every cached configuration so the next Load re-reads the environment.
func Reset() {
	cache.Range(func(key, _ any) bool {
		cache.Delete(key)
		return true
	})
}
