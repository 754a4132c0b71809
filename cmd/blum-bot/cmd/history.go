package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"jordanella.com/blum-go/internal/database"
)

var history = &cobra.Command{
	Use:   "history",
	Short: "list recent account runs from the journal",
	RunE:  runHistory,
}

var limit int

func init() {
	history.Flags().IntVarP(&limit, "limit", "l", 20, "number of runs to show")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.JournalPath == "" {
		return errors.New("journal is disabled, set journalPath or --journal")
	}

	db, err := database.OpenJournal(cfg.JournalPath)
	if err != nil {
		return errors.Wrap(err, "failed to open journal")
	}
	defer db.Close()

	runs, err := db.ListRecentRuns(limit)
	if err != nil {
		return errors.Wrap(err, "failed to list runs")
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tRUN\tACCOUNT\tSTATUS\tPASSES\tROUNDS\tPOINTS\tERROR")
	for _, r := range runs {
		msg := ""
		if r.ErrorMessage != nil {
			msg = *r.ErrorMessage
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), shortID(r.RunID), r.Account, r.Status,
			r.Passes, r.RoundsPlayed, r.PointsClaimed, msg)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
