package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/AzielCF/az-autopost/ui/cli"
	"github.com/AzielCF/az-autopost/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in once and save the session for later runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := authenticate(ctx, a.rc, cli.NewStdioPrompter(ctx))
		if err != nil {
			if interrupted(ctx, err) {
				logrus.Warn("[AUTH] interrupted before login")
				return nil
			}
			return err
		}
		logrus.Info(loginMessage(res, a.rc.Sessions.Location()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func loginMessage(res usecase.AuthResult, location string) string {
	switch {
	case res.Saved:
		return "[AUTH] session saved to " + location
	case res.Restored && !res.Refreshed:
		return "[AUTH] saved session at " + location + " is usable, nothing to update"
	default:
		return "[AUTH] logged in, but the session could not be saved to " + location
	}
}
