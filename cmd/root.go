package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/meetplan/app"
	"github.com/kilianp07/meetplan/config"
	coremon "github.com/kilianp07/meetplan/core/monitoring"
	"github.com/kilianp07/meetplan/infra/logger"
	"github.com/kilianp07/meetplan/infra/monitoring"
)

type rootOptions struct {
	cfgPath string
	cfg     *config.Config
}

// NewRootCmd builds the meetplan command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "meetplan",
		Short:         "Single-day meeting scheduler across time zones",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.cfg = cfg
			mon, err := monitoring.NewSentryMonitor(cfg.Sentry, map[string]string{
				"solver":        cfg.Solver.Type,
				"window_policy": cfg.Horizon.WindowPolicy,
			})
			if err != nil {
				logger.New("main").Warnf("sentry disabled: %v", err)
				return nil
			}
			coremon.Init(mon)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "", "configuration file (yaml or json); MEETPLAN_ variables apply either way")
	root.AddCommand(
		newPlanCmd(opts),
		newCandidatesCmd(opts),
		newRunsCmd(opts),
		newServeCmd(opts),
		newPluginsCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	defer coremon.Flush(2 * time.Second)
	defer coremon.Recover()
	err := NewRootCmd().Execute()
	if err != nil {
		coremon.CaptureException(err, map[string]string{"stage": "cli"})
	}
	return err
}

func (o *rootOptions) service() (*app.Service, error) {
	return app.New(o.cfg, app.WithMonitor(coremon.Current()))
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}
