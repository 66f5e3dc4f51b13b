package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	domainJob "github.com/AzielCF/az-autopost/domains/job"
	domainSession "github.com/AzielCF/az-autopost/domains/session"
	"github.com/AzielCF/az-autopost/ui/cli"
	"github.com/AzielCF/az-autopost/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Log in, collect a batch of posts and publish them at their times",
	RunE:  runSchedule,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, scheduleCmd} {
		c.Flags().String("jobs-file", "", `read the batch from a YAML file instead of prompting | example: --jobs-file="jobs.yaml"`)
	}
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	prompter := cli.NewStdioPrompter(ctx)
	if _, err := authenticate(ctx, a.rc, prompter); err != nil {
		if interrupted(ctx, err) {
			logrus.Warn("[AUTH] interrupted before login")
			return nil
		}
		return err
	}

	batch, err := collectBatch(ctx, cmd, a.rc, prompter)
	if err != nil {
		if interrupted(ctx, err) {
			logrus.Warn("[SCHEDULER] interrupted while collecting jobs, nothing was posted")
			return nil
		}
		return err
	}

	prompter.Println("\nAll jobs scheduled. The scheduler will post at the requested times.")
	prompter.Println("Log file:", a.rc.Results.Path())
	prompter.Println("To stop the scheduler, press Ctrl+C in this terminal.")

	summary, err := usecase.NewDispatcher(a.rc).Run(ctx, batch, usecase.NewJobExecutor(a.rc))
	if interrupted(ctx, err) {
		logrus.Warnf("[SCHEDULER] interrupted after %d of %d jobs", summary.Total, len(batch))
		return nil
	}
	if err != nil {
		return err
	}

	prompter.Println(fmt.Sprintf("\nAll scheduled jobs processed (%d succeeded, %d failed). Exiting.", summary.Succeeded, summary.Failed))
	return nil
}

// interrupted reports whether err comes from the operator stopping the run.
func interrupted(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled)
}

func authenticate(ctx context.Context, rc *usecase.RunContext, prompter usecase.Prompter) (usecase.AuthResult, error) {
	exists, err := rc.Sessions.Exists(ctx)
	if err != nil {
		logrus.Warnf("[AUTH] %v", err)
	}

	creds, err := usecase.ResolveCredentials(rc.Config.Credentials, prompter, exists)
	if err != nil {
		return usecase.AuthResult{State: domainSession.StateNoSession}, fmt.Errorf("failed to read credentials: %w", err)
	}

	res, err := usecase.NewAuthenticator(rc).Authenticate(ctx, creds)
	if err != nil {
		return res, fmt.Errorf("%w. Fix credentials or session and rerun", err)
	}
	logrus.Infof("[AUTH] ready (%s)", res.State)
	return res, nil
}

func collectBatch(ctx context.Context, cmd *cobra.Command, rc *usecase.RunContext, prompter usecase.Prompter) (domainJob.Batch, error) {
	jobsFile, _ := cmd.Flags().GetString("jobs-file")
	if jobsFile != "" {
		batch, err := usecase.LoadBatchFile(ctx, jobsFile, rc.Location, rc.Clock.Now())
		if err != nil {
			return nil, err
		}
		logrus.Infof("[SCHEDULER] loaded %d jobs from %s", len(batch), jobsFile)
		return batch, nil
	}
	return usecase.NewJobCollector(rc, prompter).Collect(ctx)
}
