// Package logging provides structured logging for Scenecraft Core.
//
// It wraps log/slog so every entry carries the service name and build
// version, and hands out per-component children for the domain packages.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	st := store.New(store.Options{Logger: logger.Component("store")})
//
// Never log credentials such as the MQTT password or InfluxDB token.
package logging
