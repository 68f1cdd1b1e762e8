// Package config handles loading and validating Scenecraft Core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with SCENECRAFT_* environment variables
//   - Validation of every section, reporting all problems at once
//   - Default value handling
//
// Sensitive values (MQTT password, InfluxDB token) should be supplied
// through the environment rather than the file.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Editor.UndoLimit)
package config
