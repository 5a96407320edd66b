package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newCandidatesCmd(root *rootOptions) *cobra.Command {
	var rosterPath string
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List the feasible start slots and their cost per meeting",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := root.cfg.LoadRoster(rosterPath)
			if err != nil {
				return fmt.Errorf("load roster: %w", err)
			}
			svc, err := root.service()
			if err != nil {
				return err
			}
			defer closeService(svc)
			enc, err := svc.Candidates(r)
			if err != nil {
				return err
			}
			g, err := svc.Planner.Grid()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MEETING\tSLOT\tSTART_UTC\tCOST")
			for _, m := range r.Meetings {
				vars := enc.ByMeeting[m.ID]
				if len(vars) == 0 {
					fmt.Fprintf(tw, "%s\t-\tnone\t-\n", m.ID)
					continue
				}
				for _, v := range vars {
					c := enc.Candidates[v]
					fmt.Fprintf(tw, "%s\t%d\t%s\t%d\n", m.ID, c.Start, g.SlotStart(c.Start).Format(time.RFC3339), c.Cost)
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d variables, %d constraints\n", len(enc.Problem.Vars), len(enc.Problem.Constraints))
			return nil
		},
	}
	cmd.Flags().StringVar(&rosterPath, "roster", "", "roster file, overrides roster_path")
	return cmd
}
