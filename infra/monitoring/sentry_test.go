package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/meetplan/config"
	coremon "github.com/kilianp07/meetplan/core/monitoring"
)

func TestNewSentryMonitor_EmptyDSN(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, m)
}

func TestNewSentryMonitor_BadDSN(t *testing.T) {
	_, err := NewSentryMonitor(config.SentryConfig{DSN: "not a dsn"}, nil)
	assert.Error(t, err)
}

func TestNewSentryMonitor_Capture(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{DSN: "https://public@127.0.0.1:1/1", Environment: "test"},
		map[string]string{"solver": "greedy", "window_policy": ""})
	require.NoError(t, err)
	sm, ok := m.(*sentryMonitor)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"app": "meetplan", "solver": "greedy"}, sm.base)

	m.CaptureException(nil, nil)
	m.CaptureException(errTest{}, map[string]string{"stage": "solve", "run_id": "r-1"})
	m.Flush(0)
}

func TestBaseTags(t *testing.T) {
	assert.Equal(t, map[string]string{"app": "meetplan"}, baseTags(nil))
	assert.Equal(t, map[string]string{"app": "meetplan", "window_policy": "clamp"},
		baseTags(map[string]string{"window_policy": "clamp", "solver": ""}))
}

type errTest struct{}

func (errTest) Error() string { return "test" }
