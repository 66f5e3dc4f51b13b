package cmd

import (
	"os"

	"github.com/AzielCF/az-autopost/core/config"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// v holds defaults, environment and flags; cfg is built from it before any command runs.
	v   = viper.New()
	cfg *config.Config
)

// rootCmd runs the scheduler when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "az-autopost",
	Short: "Schedule image posts from the terminal",
	Long: `az-autopost logs in once, asks for a batch of images, captions and times,
then waits and publishes each one at its scheduled time.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
	RunE:              runSchedule,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	config.SetDefaults(v)
	initFlags()
}

func initFlags() {
	flags := rootCmd.PersistentFlags()

	flags.BoolP("debug", "d", false, "show debug logs | example: --debug=true")
	flags.String("session-file", "", `where the login session is kept | example: --session-file="session.json"`)
	flags.String("log-file", "", `append-only result log | example: --log-file="logs/schedule_log.txt"`)
	flags.StringP("username", "u", "", "account username, overrides INSTA_USERNAME")
	flags.String("timezone", "", `zone used to read schedule times | example: --timezone="Europe/Madrid"`)
	flags.Bool("no-history", false, "do not record results in the history database")

	bind := map[string]string{
		"app_debug":      "debug",
		"session_file":   "session-file",
		"log_file":       "log-file",
		"insta_username": "username",
		"app_timezone":   "timezone",
	}
	for key, flag := range bind {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			logrus.Fatalf("failed to bind flag %s: %v", flag, err)
		}
	}
}

func initApp(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("[CONFIG] could not read .env: %v", err)
	}

	loaded, err := config.LoadConfig(v)
	if err != nil {
		return err
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		loaded.Database.HistoryEnabled = false
	}
	cfg = loaded

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Debugf("[CONFIG] %v", config.GetAllSettings(cfg))
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
