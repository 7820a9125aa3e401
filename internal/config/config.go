// Package config handles loading taskpad.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/amonks/taskpad/internal/paths"
)

// ProjectFile is the name of the per-directory config file.
const ProjectFile = "taskpad.toml"

// Defaults applied when neither config file sets a value.
const (
	DefaultDriver     = "file"
	DefaultPort       = 8080
	DefaultInterval   = time.Minute
	DefaultWindowLow  = 4 * time.Minute
	DefaultWindowHigh = 5 * time.Minute
	DefaultLogLevel   = "info"
)

// Config represents the taskpad.toml configuration file.
type Config struct {
	Storage  Storage  `toml:"storage"`
	Reminder Reminder `toml:"reminder"`
	Server   Server   `toml:"server"`
	Log      Log      `toml:"log"`
}

// Storage selects and configures the blob store backend.
type Storage struct {
	// Driver is one of "file", "memory" or "postgres".
	Driver string `toml:"driver"`

	// Dir is the state directory for the file driver. "~/" is expanded.
	Dir string `toml:"dir"`

	// DSN is the connection string for the postgres driver.
	DSN string `toml:"dsn"`
}

// Reminder configures the deadline reminder scheduler.
type Reminder struct {
	Interval   Duration `toml:"interval"`
	WindowLow  Duration `toml:"window-low"`
	WindowHigh Duration `toml:"window-high"`

	// Command is a script run for each reminder, in addition to logging.
	// Can include a shebang line; defaults to bash if not specified.
	Command string `toml:"command"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed-origins"`
	JWTSecret      string   `toml:"jwt-secret"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration that decodes from strings like "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load loads configuration from projectDir and the global config file,
// then fills in defaults. Missing files are not an error.
func Load(projectDir string) (*Config, error) {
	globalPath, err := paths.GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(projectDir, ProjectFile))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	if err := merged.applyDefaults(); err != nil {
		return nil, err
	}
	if err := merged.validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Storage.Driver = mergeString(projectMeta.IsDefined("storage", "driver"), projectCfg.Storage.Driver, globalCfg.Storage.Driver)
	merged.Storage.Dir = mergeString(projectMeta.IsDefined("storage", "dir"), projectCfg.Storage.Dir, globalCfg.Storage.Dir)
	merged.Storage.DSN = mergeString(projectMeta.IsDefined("storage", "dsn"), projectCfg.Storage.DSN, globalCfg.Storage.DSN)

	merged.Reminder.Interval = mergeDuration(projectMeta.IsDefined("reminder", "interval"), projectCfg.Reminder.Interval, globalCfg.Reminder.Interval)
	merged.Reminder.WindowLow = mergeDuration(projectMeta.IsDefined("reminder", "window-low"), projectCfg.Reminder.WindowLow, globalCfg.Reminder.WindowLow)
	merged.Reminder.WindowHigh = mergeDuration(projectMeta.IsDefined("reminder", "window-high"), projectCfg.Reminder.WindowHigh, globalCfg.Reminder.WindowHigh)
	merged.Reminder.Command = mergeString(projectMeta.IsDefined("reminder", "command"), projectCfg.Reminder.Command, globalCfg.Reminder.Command)

	merged.Server.Addr = mergeString(projectMeta.IsDefined("server", "addr"), projectCfg.Server.Addr, globalCfg.Server.Addr)
	merged.Server.JWTSecret = mergeString(projectMeta.IsDefined("server", "jwt-secret"), projectCfg.Server.JWTSecret, globalCfg.Server.JWTSecret)
	if projectMeta.IsDefined("server", "allowed-origins") {
		merged.Server.AllowedOrigins = append([]string(nil), projectCfg.Server.AllowedOrigins...)
	} else if globalMeta.IsDefined("server", "allowed-origins") {
		merged.Server.AllowedOrigins = append([]string(nil), globalCfg.Server.AllowedOrigins...)
	}

	merged.Log.Level = mergeString(projectMeta.IsDefined("log", "level"), projectCfg.Log.Level, globalCfg.Log.Level)

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

func mergeDuration(projectDefined bool, projectValue, globalValue Duration) Duration {
	if projectDefined {
		return projectValue
	}
	return globalValue
}

func (c *Config) applyDefaults() error {
	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultDriver
	}
	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	if c.Storage.Dir == "" {
		dir, err := paths.DefaultStateDir()
		if err != nil {
			return err
		}
		c.Storage.Dir = dir
	}
	dir, err := paths.ExpandHome(c.Storage.Dir)
	if err != nil {
		return err
	}
	c.Storage.Dir = dir

	if c.Reminder.Interval.Duration == 0 {
		c.Reminder.Interval.Duration = DefaultInterval
	}
	if c.Reminder.WindowLow.Duration == 0 && c.Reminder.WindowHigh.Duration == 0 {
		c.Reminder.WindowLow.Duration = DefaultWindowLow
		c.Reminder.WindowHigh.Duration = DefaultWindowHigh
	}

	if c.Server.Addr == "" {
		c.Server.Addr = fmt.Sprintf("127.0.0.1:%d", DefaultPort)
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "file", "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Reminder.Interval.Duration < 0 {
		return fmt.Errorf("reminder.interval must be positive, got %s", c.Reminder.Interval.Duration)
	}
	if c.Reminder.WindowLow.Duration < 0 || c.Reminder.WindowHigh.Duration <= c.Reminder.WindowLow.Duration {
		return fmt.Errorf("reminder window must satisfy 0 <= window-low < window-high, got %s..%s",
			c.Reminder.WindowLow.Duration, c.Reminder.WindowHigh.Duration)
	}
	return nil
}

// ResolveAddr returns the HTTP listen address. A non-blank override wins
// over the configured address; a bare port binds to localhost.
func (c *Config) ResolveAddr(override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return normalizeAddr(override)
	}
	return normalizeAddr(c.Server.Addr)
}

func normalizeAddr(addr string) (string, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return "", fmt.Errorf("address is required")
	}
	if strings.Contains(trimmed, ":") {
		return trimmed, nil
	}
	port, err := strconv.Atoi(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid port %q", trimmed)
	}
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("port out of range: %d", port)
	}
	return fmt.Sprintf("127.0.0.1:%d", port), nil
}
