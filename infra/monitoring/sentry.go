package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/meetplan/config"
	coremon "github.com/kilianp07/meetplan/core/monitoring"
)

// NewSentryMonitor initializes Sentry from cfg. Every event it sends carries
// app=meetplan plus the non-empty entries of tags, typically the solver type
// and window policy of the loaded configuration. An empty DSN yields a
// NopMonitor.
func NewSentryMonitor(cfg config.SentryConfig, tags map[string]string) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          cfg.Release,
	})
	if err != nil {
		return nil, err
	}
	return &sentryMonitor{base: baseTags(tags)}, nil
}

type sentryMonitor struct {
	base map[string]string
}

func baseTags(tags map[string]string) map[string]string {
	out := map[string]string{"app": "meetplan"}
	for k, v := range tags {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// CaptureException reports err; per-call tags such as run_id override the
// base ones.
func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(s.base)
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

func (s *sentryMonitor) RecoverPanic(r any) {
	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetTags(s.base)
	hub.Recover(r)
	hub.Flush(2 * time.Second)
}

func (s *sentryMonitor) Flush(timeout time.Duration) { sentry.Flush(timeout) }
