package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently executed posts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")

		if !cfg.Database.HistoryEnabled {
			return fmt.Errorf("history is disabled (HISTORY_ENABLED=false)")
		}
		repo, db, err := openHistory(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer closeDB(db)

		entries, err := repo.ListRecent(ctx, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No posts recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "EXECUTED\tOUTCOME\tSCHEDULED\tFILE\tDETAIL")
		for _, e := range entries {
			detail := e.ArchivedPath
			if e.Error != "" {
				detail = e.Error
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				humanize.Time(e.ExecutedAt), e.Outcome, e.TargetTime.Local().Format("2006-01-02 15:04"), e.ContentPath, detail)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "how many entries to show")
	rootCmd.AddCommand(historyCmd)
}
