package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SetDefaults registers every key with its default and enables environment lookups.
// Keys map to upper-case environment variables (session_file -> SESSION_FILE).
func SetDefaults(v *viper.Viper) {
	v.AutomaticEnv()

	v.SetDefault("app_debug", false)
	v.SetDefault("app_timezone", "")

	v.SetDefault("path_storages", "storages")
	v.SetDefault("session_file", "session.json")
	v.SetDefault("log_file", "logs/schedule_log.txt")

	v.SetDefault("insta_username", "")
	v.SetDefault("insta_password", "")

	v.SetDefault("scheduler_coarse_threshold", "60s")
	v.SetDefault("scheduler_coarse_interval", "30s")
	v.SetDefault("scheduler_fine_min", "500ms")
	v.SetDefault("scheduler_inter_job_delay", "5s")

	v.SetDefault("publisher_base_url", "")
	v.SetDefault("publisher_timeout", "60s")
	v.SetDefault("publisher_user_agent", "az-autopost/"+Version)

	v.SetDefault("history_enabled", true)
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "")

	v.SetDefault("valkey_enabled", false)
	v.SetDefault("valkey_address", "localhost:6379")
	v.SetDefault("valkey_password", "")
	v.SetDefault("valkey_db", 0)
	v.SetDefault("valkey_key_prefix", "autopost:")

	v.SetDefault("media_prepare", true)
	v.SetDefault("media_max_width", 1080)
	v.SetDefault("media_jpeg_quality", 90)
}

// GetAllSettings returns the non-secret settings, for debug output.
func GetAllSettings(c *Config) map[string]any {
	if c == nil {
		return map[string]any{}
	}
	return map[string]any{
		"app_version":               c.App.Version,
		"app_debug":                 c.App.Debug,
		"app_timezone":              c.App.Timezone,
		"session_file":              c.Paths.SessionFile,
		"log_file":                  c.Paths.LogFile,
		"scheduler_coarse_interval": c.Scheduler.CoarseInterval.String(),
		"scheduler_inter_job_delay": c.Scheduler.InterJobDelay.String(),
		"publisher_base_url":        c.Publisher.BaseURL,
		"history_enabled":           c.Database.HistoryEnabled,
		"db_driver":                 c.Database.Driver,
		"valkey_enabled":            c.Valkey.Enabled,
		"media_prepare":             c.Media.Prepare,
	}
}

// Helpers
func getString(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

func getInt(v *viper.Viper, key string) int {
	return v.GetInt(key)
}

func getBool(v *viper.Viper, key string) bool {
	return v.GetBool(key)
}

func getDuration(v *viper.Viper, key string) time.Duration {
	return v.GetDuration(key)
}
