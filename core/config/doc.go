// Package config provides type-safe environment variable loading with
// per-type caching. It backs the Config structs spread across the SDK
// (session schedule, API client, redis connection).
//
// The package loads .env files on first use and parses environment
// variables into struct fields via caarlos0/env tags:
//
//	var cfg authapi.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure during startup wiring:
//	config.MustLoad(&cfg)
//
// Each configuration type is loaded only once per application lifetime;
// repeated loads of the same type return the cached value.
package config
