// Scenecraft Core - 3D scene editor backend
//
// This is the main entry point for the Scenecraft Core service. It hosts the
// scene store and interaction engine behind a REST and WebSocket API, mirrors
// the scene to SQLite, and optionally bridges interaction events to MQTT and
// action telemetry to InfluxDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/scenecraft-core/migrations"

	"github.com/nerrad567/scenecraft-core/internal/api"
	"github.com/nerrad567/scenecraft-core/internal/bridge"
	"github.com/nerrad567/scenecraft-core/internal/export"
	"github.com/nerrad567/scenecraft-core/internal/infrastructure/config"
	"github.com/nerrad567/scenecraft-core/internal/infrastructure/database"
	"github.com/nerrad567/scenecraft-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/scenecraft-core/internal/infrastructure/logging"
	"github.com/nerrad567/scenecraft-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/scenecraft-core/internal/persistence"
	"github.com/nerrad567/scenecraft-core/internal/store"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability. It
// returns nil on clean shutdown.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // Startup wiring: one block per subsystem
	log := logging.Default()
	log.Info("starting Scenecraft Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := loadConfig(getConfigPath(), log)
	if err != nil {
		return err
	}

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	checks := make(map[string]api.HealthChecker)

	// Rehydrate the scene from the durable mirror
	var (
		adapter *persistence.Adapter
		seed    *persistence.Snapshot
	)
	if cfg.Persistence.Enabled {
		db, openErr := database.Open(ctx, database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if openErr != nil {
			return fmt.Errorf("opening database: %w", openErr)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		log.Info("database connected", "path", cfg.Database.Path)

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("database migrations complete")
		checks["database"] = db

		adapter = persistence.NewAdapter(
			persistence.NewSQLiteMirror(db.DB),
			cfg.Editor.StorageKey,
			cfg.GetPersistenceDebounce(),
			log.Component("persistence"),
		)
		seed, err = loadSeed(ctx, adapter, log)
		if err != nil {
			return err
		}
	} else {
		log.Info("persistence disabled, scene will not survive a restart")
	}

	// Build the scene store
	pasteOffset := cfg.Editor.PasteOffset
	st := store.New(store.Options{
		PasteOffset: &pasteOffset,
		UndoLimit:   cfg.Editor.UndoLimit,
		SnapSize:    cfg.Editor.SnapSize,
		Seed:        seed,
		Logger:      log.Component("store"),
	})
	log.Info("scene store ready", "objects", len(st.Objects()))

	hub := api.NewHub(cfg.WebSocket, log.Component("websocket"))
	go hub.Run(ctx)
	st.Engine().AddRecorder(hub)

	if adapter != nil {
		adapter.SetOnError(func(err error) {
			hub.ReportError("persistence", err)
		})
		adapter.Start(ctx, st)
		unsub := st.Subscribe(func(c store.Change) {
			if c.Slices.Has(store.Persisted) {
				adapter.Notify()
			}
		})
		defer func() {
			unsub()
			log.Info("flushing scene to database")
			// The run context is already cancelled during shutdown.
			if stopErr := adapter.Stop(context.WithoutCancel(ctx)); stopErr != nil {
				log.Error("error flushing scene", "error", stopErr)
			}
		}()
	}

	// Exporter watches the export flag
	exporter := export.New(st,
		export.JSONEncoder{Generator: "Scenecraft Core " + version},
		cfg.Export.Dir, cfg.Export.Filename,
		log.Component("export"),
	)
	exporter.SetOnError(func(err error) { hub.ReportError("export", err) })
	exporter.SetOnDone(hub.ExportDone)
	exporter.Start(ctx)
	defer exporter.Stop()

	// Connect to MQTT broker (optional)
	if cfg.MQTT.Enabled {
		mqttClient, bridgeStop, mqttErr := startMQTT(cfg, st, log)
		if mqttErr != nil {
			return mqttErr
		}
		defer func() {
			bridgeStop()
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		checks["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		recorder := influxdb.NewActionRecorder(influxClient)
		st.Engine().AddRecorder(recorder)
		unsub := st.Subscribe(func(c store.Change) {
			recorder.RecordChange(c.Op, c.Slices.Names())
		})
		defer unsub()
		checks["influxdb"] = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the API
	server, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Logger:   log.Component("api"),
		Store:    st,
		Exporter: exporter,
		Hub:      hub,
		Checks:   checks,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order: API, InfluxDB, MQTT, exporter,
	// persistence flush, database.
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SCENECRAFT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SCENECRAFT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig reads the configuration file. A missing file at the default
// path falls back to the built-in defaults; an explicit path must exist.
func loadConfig(path string, log *logging.Logger) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		log.Info("configuration loaded", "path", path)
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		log.Warn("no configuration file, using defaults", "path", path)
		return config.Default(), nil
	}
	return nil, fmt.Errorf("loading config: %w", err)
}

// loadSeed reads the persisted scene. A missing or unreadable snapshot
// starts an empty scene.
func loadSeed(ctx context.Context, adapter *persistence.Adapter, log *logging.Logger) (*persistence.Snapshot, error) {
	snap, err := adapter.Load(ctx)
	switch {
	case err == nil:
		return &snap, nil
	case errors.Is(err, persistence.ErrSnapshotNotFound):
		log.Info("no saved scene, starting empty", "key", adapter.Key())
		return nil, nil
	case errors.Is(err, persistence.ErrCorruptSnapshot), errors.Is(err, persistence.ErrUnsupportedVersion):
		log.Warn("saved scene is unreadable, starting empty", "key", adapter.Key(), "error", err)
		return nil, nil
	default:
		return nil, fmt.Errorf("loading saved scene: %w", err)
	}
}

// startMQTT connects to the broker and starts the event bridge. The returned
// function stops the bridge.
func startMQTT(cfg *config.Config, st *store.Store, log *logging.Logger) (*mqtt.Client, func(), error) {
	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log.Component("mqtt"))
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	br := bridge.New(client, st, log.Component("bridge"))
	if err := br.Start(); err != nil {
		client.Close() //nolint:errcheck,gosec // Cleanup on error path
		return nil, nil, fmt.Errorf("starting MQTT bridge: %w", err)
	}
	st.Engine().AddRecorder(br)
	log.Info("MQTT bridge started")
	return client, br.Stop, nil
}
