package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/floraguard/internal/alerts"
	"github.com/JaimeStill/floraguard/internal/classifier"
	"github.com/JaimeStill/floraguard/internal/decision"
	"github.com/JaimeStill/floraguard/internal/plantnet"
	"github.com/JaimeStill/floraguard/internal/translate"
	"github.com/JaimeStill/floraguard/pkg/database"
	"github.com/JaimeStill/floraguard/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvFloraGuardEnv             = "FLORAGUARD_ENV"
	EnvFloraGuardShutdownTimeout = "FLORAGUARD_SHUTDOWN_TIMEOUT"
	EnvFloraGuardVersion         = "FLORAGUARD_VERSION"
	EnvFloraGuardLogLevel        = "FLORAGUARD_LOG_LEVEL"
	EnvFloraGuardLogFormat       = "FLORAGUARD_LOG_FORMAT"
)

var databaseEnv = &database.Env{
	Host:            "FLORAGUARD_DB_HOST",
	Port:            "FLORAGUARD_DB_PORT",
	Name:            "FLORAGUARD_DB_NAME",
	User:            "FLORAGUARD_DB_USER",
	Password:        "FLORAGUARD_DB_PASSWORD",
	SSLMode:         "FLORAGUARD_DB_SSL_MODE",
	MaxOpenConns:    "FLORAGUARD_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "FLORAGUARD_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "FLORAGUARD_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "FLORAGUARD_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "FLORAGUARD_STORAGE_PROVIDER",
	ContainerName:    "FLORAGUARD_STORAGE_CONTAINER_NAME",
	ConnectionString: "FLORAGUARD_STORAGE_CONNECTION_STRING",
	ServiceURL:       "FLORAGUARD_STORAGE_SERVICE_URL",
	LocalPath:        "FLORAGUARD_STORAGE_LOCAL_PATH",
}

var classifierEnv = &classifier.Env{
	Endpoint:    "FLORAGUARD_CLASSIFIER_ENDPOINT",
	Model:       "FLORAGUARD_CLASSIFIER_MODEL",
	ClassesFile: "FLORAGUARD_CLASSIFIER_CLASSES_FILE",
	InputSize:   "FLORAGUARD_CLASSIFIER_INPUT_SIZE",
	MaxPixels:   "FLORAGUARD_CLASSIFIER_MAX_PIXELS",
	Timeout:     "FLORAGUARD_CLASSIFIER_TIMEOUT",
}

var plantnetEnv = &plantnet.Env{
	URL:     "FLORAGUARD_PLANTNET_URL",
	APIKey:  "PLANTNET_API_KEY",
	Lang:    "FLORAGUARD_PLANTNET_LANG",
	Timeout: "FLORAGUARD_PLANTNET_TIMEOUT",
}

var translateEnv = &translate.Env{
	Endpoint:   "FLORAGUARD_TRANSLATION_ENDPOINT",
	APIKey:     "FLORAGUARD_TRANSLATION_API_KEY",
	BaseLocale: "FLORAGUARD_TRANSLATION_BASE_LOCALE",
	Workers:    "FLORAGUARD_TRANSLATION_WORKERS",
	Timeout:    "FLORAGUARD_TRANSLATION_TIMEOUT",
}

var decisionEnv = &decision.Env{
	ConfidenceThreshold: "FLORAGUARD_CONFIDENCE_THRESHOLD",
}

var alertsEnv = &alerts.Env{
	NtfyTopic:   "FLORAGUARD_ALERTS_NTFY_TOPIC",
	ToxicFile:   "FLORAGUARD_ALERTS_TOXIC_FILE",
	SafeFile:    "FLORAGUARD_ALERTS_SAFE_FILE",
	Player:      "FLORAGUARD_ALERTS_PLAYER",
	Timeout:     "FLORAGUARD_ALERTS_TIMEOUT",
	MaxInFlight: "FLORAGUARD_ALERTS_MAX_IN_FLIGHT",
}

// Config is the root configuration for the FloraGuard service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	API             APIConfig         `toml:"api"`
	Classifier      classifier.Config `toml:"classifier"`
	PlantNet        plantnet.Config   `toml:"plantnet"`
	Translation     translate.Config  `toml:"translation"`
	Decision        decision.Config   `toml:"decision"`
	Alerts          alerts.Config     `toml:"alerts"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
	LogLevel        string            `toml:"log_level"`
	LogFormat       string            `toml:"log_format"`
}

// Env returns the FLORAGUARD_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvFloraGuardEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.LogFormat != "" {
		c.LogFormat = overlay.LogFormat
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Classifier.Merge(&overlay.Classifier)
	c.PlantNet.Merge(&overlay.PlantNet)
	c.Translation.Merge(&overlay.Translation)
	c.Decision.Merge(&overlay.Decision)
	c.Alerts.Merge(&overlay.Alerts)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.PlantNet.Finalize(plantnetEnv); err != nil {
		return fmt.Errorf("plantnet: %w", err)
	}
	if err := c.Translation.Finalize(translateEnv); err != nil {
		return fmt.Errorf("translation: %w", err)
	}
	if err := c.Decision.Finalize(decisionEnv); err != nil {
		return fmt.Errorf("decision: %w", err)
	}
	if err := c.Alerts.Finalize(alertsEnv); err != nil {
		return fmt.Errorf("alerts: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvFloraGuardShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvFloraGuardVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvFloraGuardLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvFloraGuardLogFormat); v != "" {
		c.LogFormat = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log_format %q: want text or json", c.LogFormat)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvFloraGuardEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
