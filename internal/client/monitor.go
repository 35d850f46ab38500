package client

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultPollInterval = 10 * time.Second

type Status string

const (
	StatusChecking Status = "checking"
	StatusOnline   Status = "online"
	StatusOffline  Status = "offline"
)

type prober interface {
	IsOnline(ctx context.Context) bool
}

// Monitor polls server reachability and records transitions in an OpLog.
type Monitor struct {
	probe    prober
	oplog    *OpLog
	logger   *slog.Logger
	interval time.Duration

	mu     sync.RWMutex
	status Status
}

func NewMonitor(probe prober, oplog *OpLog, logger *slog.Logger, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		probe:    probe,
		oplog:    oplog,
		logger:   logger,
		interval: interval,
		status:   StatusChecking,
	}
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Check probes once and returns the new status.
func (m *Monitor) Check(ctx context.Context) Status {
	next := StatusOffline
	if m.probe.IsOnline(ctx) {
		next = StatusOnline
	}

	m.mu.Lock()
	prev := m.status
	m.status = next
	m.mu.Unlock()

	if prev != next {
		m.logger.InfoContext(ctx, "server status changed", "from", prev, "to", next)
		m.oplog.Addf("Servidor %s", next)
	}
	return next
}

// Run checks immediately and then on every tick until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
