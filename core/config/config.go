package config

import (
	"fmt"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App         AppConfig
	Paths       PathsConfig
	Credentials CredentialsConfig
	Scheduler   SchedulerConfig
	Publisher   PublisherConfig
	Database    DatabaseConfig
	Valkey      ValkeyConfig
	Media       MediaConfig
}

type AppConfig struct {
	Version  string
	Debug    bool
	Timezone string // empty means the machine's local zone
}

type PathsConfig struct {
	SessionFile string
	LogFile     string
	Storages    string
}

type CredentialsConfig struct {
	Username string
	Password string
}

// SchedulerConfig controls how the dispatcher waits. Defaults mirror the two-tier polling:
// 30s naps while more than a minute remains, then one final sleep of at least 500ms.
type SchedulerConfig struct {
	CoarseThreshold time.Duration
	CoarseInterval  time.Duration
	FineMinimum     time.Duration
	InterJobDelay   time.Duration
}

type PublisherConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type DatabaseConfig struct {
	HistoryEnabled bool
	Driver         string
	Host           string
	Port           int
	User           string
	Password       string
	Name           string // File path for SQLite, DB Name for Postgres
}

type ValkeyConfig struct {
	Enabled   bool
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

type MediaConfig struct {
	Prepare     bool
	MaxWidth    int
	JPEGQuality int
}

const Version = "v1.2.0"

// LoadConfig builds the configuration from v, which already carries defaults, environment and flags.
func LoadConfig(v *viper.Viper) (*Config, error) {
	storages := getString(v, "path_storages")

	cfg := &Config{
		App: AppConfig{
			Version:  Version,
			Debug:    getBool(v, "app_debug"),
			Timezone: getString(v, "app_timezone"),
		},
		Paths: PathsConfig{
			SessionFile: getString(v, "session_file"),
			LogFile:     getString(v, "log_file"),
			Storages:    storages,
		},
		Credentials: CredentialsConfig{
			Username: getString(v, "insta_username"),
			Password: getString(v, "insta_password"),
		},
		Scheduler: SchedulerConfig{
			CoarseThreshold: getDuration(v, "scheduler_coarse_threshold"),
			CoarseInterval:  getDuration(v, "scheduler_coarse_interval"),
			FineMinimum:     getDuration(v, "scheduler_fine_min"),
			InterJobDelay:   getDuration(v, "scheduler_inter_job_delay"),
		},
		Publisher: PublisherConfig{
			BaseURL:   getString(v, "publisher_base_url"),
			Timeout:   getDuration(v, "publisher_timeout"),
			UserAgent: getString(v, "publisher_user_agent"),
		},
		Database: DatabaseConfig{
			HistoryEnabled: getBool(v, "history_enabled"),
			Driver:         getString(v, "db_driver"),
			Host:           getString(v, "db_host"),
			Port:           getInt(v, "db_port"),
			User:           getString(v, "db_user"),
			Password:       getString(v, "db_password"),
			Name:           getString(v, "db_name"),
		},
		Valkey: ValkeyConfig{
			Enabled:   getBool(v, "valkey_enabled"),
			Address:   getString(v, "valkey_address"),
			Password:  getString(v, "valkey_password"),
			DB:        getInt(v, "valkey_db"),
			KeyPrefix: getString(v, "valkey_key_prefix"),
		},
		Media: MediaConfig{
			Prepare:     getBool(v, "media_prepare"),
			MaxWidth:    getInt(v, "media_max_width"),
			JPEGQuality: getInt(v, "media_jpeg_quality"),
		},
	}

	if cfg.Database.Name == "" && cfg.Database.Driver != "postgres" {
		cfg.Database.Name = filepath.Join(storages, "history.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	s := &c.Scheduler
	if err := validation.ValidateStruct(s,
		validation.Field(&s.CoarseThreshold, validation.Required, validation.Min(time.Second)),
		validation.Field(&s.CoarseInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&s.FineMinimum, validation.Required),
		validation.Field(&s.InterJobDelay, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	p := &c.Paths
	if err := validation.ValidateStruct(p,
		validation.Field(&p.SessionFile, validation.Required),
		validation.Field(&p.LogFile, validation.Required),
	); err != nil {
		return fmt.Errorf("paths: %w", err)
	}

	pub := &c.Publisher
	if err := validation.ValidateStruct(pub,
		validation.Field(&pub.BaseURL, validation.Required.Error("is required, set PUBLISHER_BASE_URL")),
	); err != nil {
		return fmt.Errorf("publisher: %w", err)
	}

	m := &c.Media
	if err := validation.ValidateStruct(m,
		validation.Field(&m.MaxWidth, validation.Min(1)),
		validation.Field(&m.JPEGQuality, validation.Min(1), validation.Max(100)),
	); err != nil {
		return fmt.Errorf("media: %w", err)
	}

	d := &c.Database
	if d.HistoryEnabled {
		if err := validation.ValidateStruct(d,
			validation.Field(&d.Driver, validation.In("sqlite", "postgres")),
			validation.Field(&d.Name, validation.Required),
		); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if c.Valkey.Enabled && c.Valkey.Address == "" {
		return fmt.Errorf("valkey: address is required when enabled")
	}
	return nil
}

// Location resolves the zone used to read operator datetimes.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.App.Timezone)
}
