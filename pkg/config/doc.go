// Package config reads the auth service configuration from environment
// variables with cleanenv.
//
// Each concern has its own struct with env tags and defaults: JWTConfig,
// StoreConfig, DatabaseConfig, RedisConfig, EmailConfig and PasswordConfig.
// Config groups them together with the chi-demo server settings.
//
//	cfg, err := config.Load()
//	if err != nil {
//		slog.Error("Failed to load configuration", "error", err)
//		os.Exit(1)
//	}
//
// # Durations
//
// TTLs accept ISO 8601 durations ("PT10M") as well as Go durations ("10m").
//
// # Validation
//
// Load runs Validate, which collects every problem into ValidationErrors
// instead of stopping at the first one:
//
//	err := config.Validate(
//		func() config.ValidationErrors {
//			return config.CollectErrors(
//				config.RequireNonEmpty("JWT_SECRET", secret),
//				config.RequireOneOf("USER_STORE", store, []string{"memory", "file", "postgres"}),
//			)
//		},
//	)
package config
