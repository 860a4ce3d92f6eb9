// Gray Logic Keypad - door entry appliance
//
// This is the main entry point for the keypad lock. It reads a 4x3 key
// matrix, checks four-digit access codes against the resident list,
// drives the door relay, indicators, buzzer and doorbell, and journals
// every attempt and ring to SQLite (plus MQTT and InfluxDB when enabled).
//
// Two hardware backends are available:
//   - console: virtual keypad typed at a readline prompt, display drawn in the terminal
//   - gpio: physical matrix and outputs on a single-board computer via periph.io
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"golang.org/x/sync/errgroup"

	_ "github.com/nerrad567/gray-logic-keypad/migrations"

	"github.com/nerrad567/gray-logic-keypad/internal/access"
	"github.com/nerrad567/gray-logic-keypad/internal/audit"
	"github.com/nerrad567/gray-logic-keypad/internal/events"
	"github.com/nerrad567/gray-logic-keypad/internal/hal/board"
	"github.com/nerrad567/gray-logic-keypad/internal/hal/console"
	"github.com/nerrad567/gray-logic-keypad/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-keypad/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-keypad/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-keypad/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-keypad/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-keypad/internal/keypad"
	"github.com/nerrad567/gray-logic-keypad/internal/lock"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

const (
	// Default configuration file path
	defaultConfigPath = "configs/keypad.yaml"

	// eventQueueSize bounds the events waiting for the sinks.
	eventQueueSize = 64

	// displayRefresh is how often the console display is repainted when dirty.
	displayRefresh = 50 * time.Millisecond
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, opens the hardware backend and serves until
// ctx is cancelled or the operator quits the console.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Gray Logic Keypad",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	var prompt *readline.Instance
	logOutput := io.Writer(os.Stdout)
	if cfg.Logging.Output == "stderr" {
		logOutput = os.Stderr
	}
	if cfg.Hardware.Backend == config.BackendConsole {
		prompt, err = console.NewPrompt()
		if err != nil {
			return fmt.Errorf("opening console: %w", err)
		}
		defer prompt.Close() //nolint:errcheck // Also closed by the input loop on shutdown
		logOutput = prompt.Stdout()
	}

	log = logging.NewWithWriter(cfg.Logging, version, logOutput)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
		"backend", cfg.Hardware.Backend,
	)

	hw, err := openHardware(cfg, log, prompt)
	if err != nil {
		return fmt.Errorf("opening %s backend: %w", cfg.Hardware.Backend, err)
	}

	return serve(ctx, cfg, log, hw)
}

// hardware is one I/O backend. tasks run alongside the appliance and
// stop with it.
type hardware struct {
	lines    keypad.Lines
	display  lock.Display
	actuator lock.Actuator
	tasks    []func(ctx context.Context) error
}

// openHardware builds the backend named in cfg. prompt is only used by
// the console backend.
func openHardware(cfg *config.Config, log *logging.Logger, prompt *readline.Instance) (*hardware, error) {
	display := console.NewDisplay()

	switch cfg.Hardware.Backend {
	case config.BackendGPIO:
		matrix, actuator, err := board.Open(cfg.Hardware)
		if err != nil {
			return nil, err
		}
		// No LCD driver on the board yet; the frame is mirrored to stderr.
		return &hardware{
			lines:    matrix,
			display:  display,
			actuator: actuator,
			tasks: []func(context.Context) error{
				func(ctx context.Context) error { return display.Run(ctx, os.Stderr, displayRefresh) },
			},
		}, nil

	case config.BackendConsole:
		if prompt == nil {
			return nil, errors.New("console backend needs a prompt")
		}
		matrix := console.NewMatrix()
		hold, gap := console.KeyTiming(cfg.Lock.ScanInterval, cfg.Lock.DebounceScans)
		input := console.NewInput(prompt, matrix, prompt.Stdout(), hold, gap)

		return &hardware{
			lines:    matrix,
			display:  display,
			actuator: console.NewActuator(log.Component("outputs")),
			tasks: []func(context.Context) error{
				input.Run,
				func(ctx context.Context) error { return display.Run(ctx, prompt.Stdout(), displayRefresh) },
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Hardware.Backend)
	}
}

// serve opens the journal, connects the optional telemetry sinks and runs
// the appliance, the event dispatcher and the backend tasks together.
func serve(ctx context.Context, cfg *config.Config, log *logging.Logger, hw *hardware) error {
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
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

	journal := audit.NewSQLiteRepository(db.DB)
	logJournalState(ctx, db, journal, log)

	sinks := []events.Sink{
		events.NewLogSink(log),
		events.NewJournalSink(journal),
	}

	mqttClient := connectMQTT(cfg, log)
	if mqttClient != nil {
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		sinks = append(sinks, events.NewMQTTSink(mqttClient))
	}

	influxClient := connectInfluxDB(ctx, cfg, log)
	if influxClient != nil {
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		sinks = append(sinks, events.NewInfluxSink(influxClient))
	}

	dispatcher := events.NewDispatcher(cfg.Site.ID, eventQueueSize, log.Component("events"), sinks...)

	reader := keypad.NewReader(hw.lines, cfg.Lock.DebounceScans, log.Component("keypad"))
	appliance, err := lock.New(lockConfig(cfg), lock.Deps{
		Keys:     reader,
		Registry: access.Builtin(),
		Display:  hw.display,
		Actuator: hw.actuator,
		Journal:  dispatcher,
		Logger:   log.Component("lock"),
	})
	if err != nil {
		return fmt.Errorf("creating appliance: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return appliance.Run(gctx) })
	g.Go(func() error { return dispatcher.Run(gctx) })
	for _, task := range hw.tasks {
		task := task
		g.Go(func() error { return task(gctx) })
	}

	log.Info("initialisation complete, keypad ready", "site", cfg.Site.ID)

	err = g.Wait()
	if errors.Is(err, console.ErrQuit) {
		log.Info("console closed, shutting down")
		err = nil
	}

	status := appliance.Status()
	log.Info("Gray Logic Keypad stopped",
		"accepted", status.Totals.Accepted,
		"rejected", status.Totals.Rejected,
		"doorbell", status.Totals.Doorbell,
		"events_dropped", dispatcher.Dropped(),
	)
	return err
}

// logJournalState reports the schema version and what the journal already
// holds. Failures here only cost the startup summary.
func logJournalState(ctx context.Context, db *database.DB, journal audit.Repository, log *logging.Logger) {
	applied, pending, err := db.MigrationStatus(ctx)
	if err != nil {
		log.Warn("reading migration status failed", "error", err)
	} else {
		schema := "none"
		if len(applied) > 0 {
			schema = applied[len(applied)-1].Version
		}
		log.Info("journal schema", "version", schema, "applied", len(applied), "pending", len(pending))
	}

	summary, err := journal.Summary(ctx)
	if err != nil {
		log.Warn("reading journal summary failed", "error", err)
		return
	}

	last := "never"
	if page, listErr := journal.List(ctx, audit.Filter{Limit: 1}); listErr == nil && len(page.Events) > 0 {
		last = page.Events[0].CreatedAt.Format(time.RFC3339)
	}

	log.Info("access journal opened",
		"accepted", summary.Accepted,
		"rejected", summary.Rejected,
		"doorbell", summary.Doorbell,
		"last_event", last,
	)
}

// connectMQTT returns nil when MQTT is disabled or the broker cannot be
// reached; the lock keeps working without it.
func connectMQTT(cfg *config.Config, log *logging.Logger) *mqtt.Client {
	if !cfg.MQTT.Enabled {
		log.Info("MQTT disabled")
		return nil
	}

	client, err := mqtt.Connect(cfg.MQTT, cfg.Site.ID)
	if err != nil {
		log.Warn("MQTT unavailable, events will not be published", "error", err)
		return nil
	}
	client.SetLogger(log.Component("mqtt"))
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)
	return client
}

// connectInfluxDB returns nil when InfluxDB is disabled or unreachable.
func connectInfluxDB(ctx context.Context, cfg *config.Config, log *logging.Logger) *influxdb.Client {
	if !cfg.InfluxDB.Enabled {
		log.Info("InfluxDB disabled")
		return nil
	}

	client, err := influxdb.Connect(cfg.InfluxDB, cfg.Site.ID)
	if err != nil {
		log.Warn("InfluxDB unavailable, metrics will not be written", "error", err)
		return nil
	}
	if healthErr := client.HealthCheck(ctx); healthErr != nil {
		log.Warn("InfluxDB health check failed", "error", healthErr)
	}
	client.SetOnError(func(err error) {
		log.Error("InfluxDB write error", "error", err)
	})
	log.Info("InfluxDB connected",
		"url", cfg.InfluxDB.URL,
		"org", cfg.InfluxDB.Org,
		"bucket", cfg.InfluxDB.Bucket,
	)
	return client
}

// lockConfig maps the lock section of the configuration onto the appliance.
func lockConfig(cfg *config.Config) lock.Config {
	return lock.Config{
		ScanInterval:      cfg.Lock.ScanInterval,
		CountdownInterval: cfg.Lock.CountdownInterval,
		BuzzerInterval:    cfg.Lock.BuzzerInterval,
		Timing: lock.Timing{
			EntryWindow: cfg.Lock.EntryWindowSeconds,
			Cooldown:    cfg.Lock.CooldownSeconds,
		},
		SiteName: cfg.Site.Name,
	}
}

// getConfigPath returns the configuration file path.
// Uses GRAYLOGIC_KEYPAD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYLOGIC_KEYPAD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
