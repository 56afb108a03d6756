// Package config provides the configuration document shared by every
// component of an application.
//
// A Config wraps a Viper instance. It is created empty, populated once by
// Load before any component is constructed, and read concurrently after
// that. Components read their own section by name:
//
//	var cfg logger.Config
//	if _, err := c.SectionOrDefault("log", &cfg); err != nil {
//		return err
//	}
//
// Values come from an optional YAML/JSON/TOML file, an optional .env file
// and the process environment. Environment variables override file values
// using underscore-separated paths (LOG_LEVEL overrides log.level). With
// WithEnvPrefix the variables must carry the prefix (APP_LOG_LEVEL).
package config
