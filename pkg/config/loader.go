package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache keeps one parsed value per config type.
type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	loaded = &cache{values: make(map[reflect.Type]any)}

	dotenvOnce sync.Once
)

// Load fills v from environment variables using `env` struct tags.
// The first call reads a .env file from the working directory if present.
// Each config type is parsed once; later calls receive the cached copy.
//
//	type Config struct {
//		Addr       string `env:"HTTP_ADDR" envDefault:":8080"`
//		BestEffort bool   `env:"NOTIFY_BEST_EFFORT"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		// a missing .env is fine
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	loaded.mu.Lock()
	defer loaded.mu.Unlock()

	if cached, ok := loaded.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	var fresh T
	if err := env.Parse(&fresh); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	loaded.values[key] = fresh
	*v = fresh
	return nil
}

// MustLoad is Load that panics on failure. Use it in main for settings the
// service cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// LoadEnv reads the given dotenv files, later files overriding earlier ones
// and all of them overriding the process environment.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := godotenv.Overload(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Reset drops every cached config so the next Load parses again.
func Reset() {
	loaded.mu.Lock()
	defer loaded.mu.Unlock()
	clear(loaded.values)
}
