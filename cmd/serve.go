package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/kilianp07/meetplan/api/plan"
	"github.com/kilianp07/meetplan/api/runs"
	"github.com/kilianp07/meetplan/app"
	"github.com/kilianp07/meetplan/infra/logger"
	"github.com/kilianp07/meetplan/infra/metrics"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planning and run log API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if addr == "" {
				addr = root.cfg.API.Addr
			}
			svc, err := root.service()
			if err != nil {
				return err
			}
			defer closeService(svc)
			return serve(ctx, addr, newMux(svc, root.cfg.API.Token))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default api.addr)")
	return cmd
}

func newMux(svc *app.Service, token string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/plan", plan.NewHandler(svc, token))
	mux.Handle("/api/runs", runs.NewHandler(svc.Store(), token))
	mux.Handle("/metrics", metrics.Handler(prometheus.DefaultGatherer))
	return mux
}

func serve(ctx context.Context, addr string, h http.Handler) error {
	log := logger.New("api")
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("api shutdown: %v", err)
		}
	}()
	log.Infof("api listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
