package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jask/swipeback/internal/database"
	"github.com/jask/swipeback/internal/database/repository"
)

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect recorded swipe sessions",
	}
	cmd.AddCommand(newJournalListCmd(), newJournalStatsCmd(), newJournalExportCmd(), newJournalPruneCmd())
	return cmd
}

// openJournal migrates and opens the configured journal database.
func openJournal(cmd *cobra.Command) (*sql.DB, error) {
	cfg, err := loaderFor(cmd).Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.RunMigrations(cfg.Journal.Path); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return database.Open(cfg.Journal.Path)
}

func newJournalListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openJournal(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			sessions, err := repository.NewSessionRepo(db).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions recorded.")
				return nil
			}
			return writeSessions(out, sessions)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of sessions to show")
	return cmd
}

func writeSessions(w io.Writer, sessions []repository.Session) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tEDGE\tTARGET\tOUTCOME\tRELEASE\tPEAK\tVELOCITY\tDURATION")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f%%\t%.0f%%\t%.0f\t%dms\n",
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.Edge,
			s.Target,
			s.Outcome,
			s.ReleasePercent*100,
			s.PeakPercent*100,
			s.ReleaseVelocity,
			s.DurationMS)
	}
	return tw.Flush()
}

func newJournalStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize sessions per edge and outcome",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openJournal(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			stats, err := repository.NewSessionRepo(db).Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(stats) == 0 {
				fmt.Fprintln(out, "No sessions recorded.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "EDGE\tOUTCOME\tCOUNT\tAVG RELEASE\tAVG DURATION\tMAX VELOCITY")
			for _, s := range stats {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f%%\t%.0fms\t%.0f\n",
					s.Edge, s.Outcome, s.Count, s.AvgReleasePercent*100, s.AvgDurationMS, s.MaxReleaseVelocity)
			}
			return tw.Flush()
		},
	}
}

func newJournalExportCmd() *cobra.Command {
	var (
		format string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write sessions as json or yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q: use json or yaml", format)
			}
			db, err := openJournal(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			sessions, err := repository.NewSessionRepo(db).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if sessions == nil {
				sessions = []repository.Session{}
			}
			out := cmd.OutOrStdout()
			if format == "yaml" {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(sessions); err != nil {
					return err
				}
				return enc.Close()
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sessions)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of sessions, 0 for all")
	return cmd
}

func newJournalPruneCmd() *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keep < 0 {
				return fmt.Errorf("--keep must be >= 0")
			}
			db, err := openJournal(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := repository.NewSessionRepo(db).Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d session(s).\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 500, "sessions to keep")
	return cmd
}
