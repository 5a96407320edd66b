package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/meetplan/core/planner"
	"github.com/kilianp07/meetplan/core/runlog"
)

func newRunsCmd(root *rootOptions) *cobra.Command {
	var status, meeting, since, until string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Query the run log",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := runlog.Query{Status: planner.Status(status), MeetingID: meeting}
			var err error
			if since != "" {
				if q.Start, err = time.Parse(time.RFC3339, since); err != nil {
					return fmt.Errorf("--since: %w", err)
				}
			}
			if until != "" {
				if q.End, err = time.Parse(time.RFC3339, until); err != nil {
					return fmt.Errorf("--until: %w", err)
				}
			}
			svc, err := root.service()
			if err != nil {
				return err
			}
			defer closeService(svc)
			recs, err := svc.Runs(cmd.Context(), q)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN_ID\tTIME\tSTATUS\tSOLVER\tOBJECTIVE\tSCHEDULED")
			for _, r := range recs {
				scheduled := 0
				for _, row := range r.Rows {
					if row.Scheduled() {
						scheduled++
					}
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d/%d\n",
					r.RunID, r.Timestamp.Format(time.RFC3339), r.Status, r.SolverStatus, r.Objective, scheduled, len(r.Rows))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by run status")
	cmd.Flags().StringVar(&meeting, "meeting", "", "filter by meeting ID")
	cmd.Flags().StringVar(&since, "since", "", "only runs at or after this RFC3339 time")
	cmd.Flags().StringVar(&until, "until", "", "only runs at or before this RFC3339 time")
	return cmd
}
