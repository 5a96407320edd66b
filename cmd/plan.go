package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/meetplan/core/planner"
	"github.com/kilianp07/meetplan/infra/logger"
	"github.com/kilianp07/meetplan/infra/metrics"
	"github.com/kilianp07/meetplan/pkg/export"
)

type planOptions struct {
	roster      string
	format      string
	out         string
	metricsAddr string
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Schedule the roster and export the plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.roster, "roster", "", "roster file, overrides roster_path")
	cmd.Flags().StringVar(&opts.format, "format", "json", "output format: json, csv or chart")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while planning")
	return cmd
}

func runPlan(cmd *cobra.Command, root *rootOptions, opts *planOptions) error {
	write, err := exporter(opts.format)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := root.cfg.LoadRoster(opts.roster)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	svc, err := root.service()
	if err != nil {
		return err
	}
	defer closeService(svc)

	if opts.metricsAddr != "" {
		srvCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := metrics.StartPromServer(srvCtx, opts.metricsAddr); err != nil {
				logger.New("main").Errorf("prom server: %v", err)
			}
		}()
	}

	res, err := svc.Plan(ctx, r)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := write(w, res); err != nil {
		return fmt.Errorf("export %s: %w", opts.format, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "run %s: status=%s solver=%s objective=%d scheduled=%d/%d elapsed=%s\n",
		res.RunID, res.Status, res.SolverStatus, res.Objective, res.Stats.Scheduled, res.Stats.Meetings, res.Elapsed)
	for _, c := range res.Causes {
		fmt.Fprintf(cmd.ErrOrStderr(), "  cause %s\n", c)
	}
	return res.Err()
}

func exporter(format string) (func(io.Writer, *planner.Result) error, error) {
	switch format {
	case "json":
		return func(w io.Writer, res *planner.Result) error { return export.WriteJSON(w, res.Rows) }, nil
	case "csv":
		return func(w io.Writer, res *planner.Result) error { return export.WriteCSV(w, res.Rows) }, nil
	case "chart":
		return func(w io.Writer, res *planner.Result) error {
			return export.WriteChart(w, fmt.Sprintf("Meeting plan %s (%s)", res.RunID, res.Status), res.Rows)
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want json, csv or chart)", format)
	}
}
