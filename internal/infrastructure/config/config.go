package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Hardware backend identifiers.
const (
	// BackendConsole runs the appliance against a virtual keypad and a terminal display.
	BackendConsole = "console"

	// BackendGPIO drives a physical key matrix and output pins.
	BackendGPIO = "gpio"
)

// Keypad matrix dimensions expected by the gpio backend.
const (
	keypadRows    = 4
	keypadColumns = 3
)

// Config is the root configuration structure for the keypad lock.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Lock     LockConfig     `yaml:"lock"`
	Hardware HardwareConfig `yaml:"hardware"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SiteConfig identifies the door this appliance guards.
type SiteConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// LockConfig contains the task periods and stage deadlines of the appliance.
type LockConfig struct {
	// ScanInterval is the period of the keypad scan / session task.
	// Default: 4ms
	ScanInterval time.Duration `yaml:"scan_interval"`

	// CountdownInterval is the period of the countdown task.
	// Stage deadlines are counted in these ticks.
	// Default: 1s
	CountdownInterval time.Duration `yaml:"countdown_interval"`

	// BuzzerInterval is the period of the buzzer pattern task.
	// Buzzer schedules are counted in these ticks.
	// Default: 16ms
	BuzzerInterval time.Duration `yaml:"buzzer_interval"`

	// EntryWindowSeconds is the deadline for typing a code after '*'.
	// Default: 5
	EntryWindowSeconds int `yaml:"entry_window_seconds"`

	// CooldownSeconds is how long an outcome (or a doorbell ring) is held
	// before the appliance returns to standby.
	// Default: 3
	CooldownSeconds int `yaml:"cooldown_seconds"`

	// DebounceScans is how many consecutive identical scans are needed before
	// a change in the matrix is believed. 1 disables chatter filtering.
	// Default: 1
	DebounceScans int `yaml:"debounce_scans"`
}

// HardwareConfig selects the I/O backend and names its pins.
type HardwareConfig struct {
	// Backend is "console" or "gpio".
	Backend string `yaml:"backend"`

	// Keypad names the matrix lines (gpio backend only).
	Keypad KeypadPinsConfig `yaml:"keypad"`

	// Pins names the output lines (gpio backend only).
	Pins OutputPinsConfig `yaml:"pins"`
}

// KeypadPinsConfig names the driven rows and sensed columns of the key matrix.
type KeypadPinsConfig struct {
	Rows    []string `yaml:"rows"`
	Columns []string `yaml:"columns"`
}

// OutputPinsConfig names the output lines driven by the appliance.
type OutputPinsConfig struct {
	Relay           string `yaml:"relay"`
	AcceptIndicator string `yaml:"accept_indicator"`
	RejectIndicator string `yaml:"reject_indicator"`
	Buzzer          string `yaml:"buzzer"`
	Doorbell        string `yaml:"doorbell"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
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

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
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
// Environment variables follow the pattern: GRAYLOGIC_KEYPAD_SECTION_KEY
// For example: GRAYLOGIC_KEYPAD_DATABASE_PATH, GRAYLOGIC_KEYPAD_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with the appliance's factory settings.
// The timings match the reference keypad hardware: 4ms scan, 1s countdown,
// 16ms buzzer tick, 5s entry window and 3s cooldown.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			ID:   "door-001",
			Name: "Front Door",
		},
		Lock: LockConfig{
			ScanInterval:       4 * time.Millisecond,
			CountdownInterval:  time.Second,
			BuzzerInterval:     16 * time.Millisecond,
			EntryWindowSeconds: 5,
			CooldownSeconds:    3,
			DebounceScans:      1,
		},
		Hardware: HardwareConfig{
			Backend: BackendConsole,
		},
		Database: DatabaseConfig{
			Path:        "./data/keypad.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "graylogic-keypad",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: GRAYLOGIC_KEYPAD_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRAYLOGIC_KEYPAD_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("GRAYLOGIC_KEYPAD_HARDWARE_BACKEND"); v != "" {
		cfg.Hardware.Backend = v
	}

	if v := os.Getenv("GRAYLOGIC_KEYPAD_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("GRAYLOGIC_KEYPAD_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GRAYLOGIC_KEYPAD_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("GRAYLOGIC_KEYPAD_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	errs = append(errs, c.Lock.validate()...)
	errs = append(errs, c.Hardware.validate()...)

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func (l LockConfig) validate() []string {
	var errs []string

	if l.ScanInterval <= 0 {
		errs = append(errs, "lock.scan_interval must be positive")
	}
	if l.CountdownInterval <= 0 {
		errs = append(errs, "lock.countdown_interval must be positive")
	}
	if l.BuzzerInterval <= 0 {
		errs = append(errs, "lock.buzzer_interval must be positive")
	}
	// The countdown is the slow clock; both fast tasks must tick faster than it.
	if l.CountdownInterval > 0 && l.BuzzerInterval >= l.CountdownInterval {
		errs = append(errs, "lock.buzzer_interval must be shorter than lock.countdown_interval")
	}
	if l.CountdownInterval > 0 && l.ScanInterval >= l.CountdownInterval {
		errs = append(errs, "lock.scan_interval must be shorter than lock.countdown_interval")
	}
	if l.EntryWindowSeconds <= 0 {
		errs = append(errs, "lock.entry_window_seconds must be positive")
	}
	if l.CooldownSeconds <= 0 {
		errs = append(errs, "lock.cooldown_seconds must be positive")
	}
	if l.DebounceScans < 1 {
		errs = append(errs, "lock.debounce_scans must be at least 1")
	}

	return errs
}

func (h HardwareConfig) validate() []string {
	switch h.Backend {
	case BackendConsole:
		return nil
	case BackendGPIO:
	default:
		return []string{fmt.Sprintf("hardware.backend must be %q or %q", BackendConsole, BackendGPIO)}
	}

	var errs []string
	if len(h.Keypad.Rows) != keypadRows {
		errs = append(errs, fmt.Sprintf("hardware.keypad.rows must name %d pins", keypadRows))
	}
	if len(h.Keypad.Columns) != keypadColumns {
		errs = append(errs, fmt.Sprintf("hardware.keypad.columns must name %d pins", keypadColumns))
	}

	pins := []struct{ name, value string }{
		{"relay", h.Pins.Relay},
		{"accept_indicator", h.Pins.AcceptIndicator},
		{"reject_indicator", h.Pins.RejectIndicator},
		{"buzzer", h.Pins.Buzzer},
		{"doorbell", h.Pins.Doorbell},
	}
	for _, p := range pins {
		if p.value == "" {
			errs = append(errs, fmt.Sprintf("hardware.pins.%s is required for the gpio backend", p.name))
		}
	}

	return errs
}
