// Package logger provides structured logging on zerolog.
//
// Messages take optional map fields:
//
//	log := logger.WithComponent("db")
//	log.Info("connected", map[string]interface{}{"dsn": dsn})
//
// The package keeps a global logger. Component, registered with the
// bootstrap orchestrator, replaces it from the `log` configuration section:
//
//	log:
//	  level: debug
//	  format: json
//	  output: stderr
package logger
