package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// cache holds one loaded value per configuration type.
	cache sync.Map // reflect.Type -> struct value

	// loadDotEnvOnce loads .env files once per process, before the first
	// environment parse. A missing .env file is not an error.
	loadDotEnvOnce sync.Once
)

// Load parses environment variables into cfg. Each configuration type is
// loaded once per application lifetime; subsequent calls for the same
// type return the cached value, so every caller observes identical
// configuration regardless of later environment mutations.
func Load[T any](cfg *T) error {
	loadDotEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(key); ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to load config %s: %w", key, err)
	}

	cached, _ := cache.LoadOrStore(key, *cfg)
	*cfg = cached.(T)
	return nil
}

// MustLoad is Load that panics on failure, for use at startup where a
// missing required variable should stop the process immediately.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
