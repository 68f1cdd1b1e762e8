package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Scenecraft Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Editor      EditorConfig      `yaml:"editor"`
	Database    DatabaseConfig    `yaml:"database"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Export      ExportConfig      `yaml:"export"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	API         APIConfig         `yaml:"api"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// EditorConfig contains scene editing behaviour.
type EditorConfig struct {
	// PasteOffset is the x/z delta applied by paste and duplicate.
	PasteOffset float64 `yaml:"paste_offset"`

	// UndoLimit is the maximum number of undo steps kept.
	UndoLimit int `yaml:"undo_limit"`

	// SnapSize is the initial grid snap size.
	SnapSize float64 `yaml:"snap_size"`

	// StorageKey is the key the scene is persisted under.
	StorageKey string `yaml:"storage_key"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// PersistenceConfig controls the durable scene mirror.
type PersistenceConfig struct {
	Enabled bool `yaml:"enabled"`

	// DebounceMS is how long to wait after a change before writing.
	DebounceMS int `yaml:"debounce_ms"`
}

// ExportConfig controls where exports are written.
type ExportConfig struct {
	Dir      string `yaml:"dir"`
	Filename string `yaml:"filename"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SCENECRAFT_SECTION_KEY
// For example: SCENECRAFT_DATABASE_PATH, SCENECRAFT_API_PORT
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration, for running without a file.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			PasteOffset: 1.0,
			UndoLimit:   100,
			SnapSize:    0.5,
			StorageKey:  "3d-design-tool-storage",
		},
		Database: DatabaseConfig{
			Path:        "./data/scenecraft.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Persistence: PersistenceConfig{
			Enabled:    true,
			DebounceMS: 250,
		},
		Export: ExportConfig{
			Dir:      "./exports",
			Filename: "scene.json",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "scenecraft-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		InfluxDB: InfluxDBConfig{
			Bucket:        "scenecraft",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SCENECRAFT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("SCENECRAFT_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SCENECRAFT_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SCENECRAFT_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("SCENECRAFT_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("SCENECRAFT_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing SCENECRAFT_API_PORT: %w", err)
		}
		cfg.API.Port = port
	}

	if v := os.Getenv("SCENECRAFT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	if v := os.Getenv("SCENECRAFT_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	return nil
}

// Validate checks the configuration, reporting every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Editor.UndoLimit < 1 {
		errs = append(errs, "editor.undo_limit must be at least 1")
	}
	if math.IsNaN(c.Editor.PasteOffset) || math.IsInf(c.Editor.PasteOffset, 0) {
		errs = append(errs, "editor.paste_offset must be finite")
	}
	if !(c.Editor.SnapSize > 0) || math.IsInf(c.Editor.SnapSize, 0) {
		errs = append(errs, "editor.snap_size must be a positive number")
	}
	if c.Editor.StorageKey == "" {
		errs = append(errs, "editor.storage_key is required")
	}

	if c.Persistence.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when persistence is enabled")
	}
	if c.Persistence.DebounceMS < 0 {
		errs = append(errs, "persistence.debounce_ms must not be negative")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetPersistenceDebounce returns the persistence debounce as a Duration.
func (c *Config) GetPersistenceDebounce() time.Duration {
	return time.Duration(c.Persistence.DebounceMS) * time.Millisecond
}
