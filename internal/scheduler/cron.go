package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether the remote store answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor periodically checks whether the remote store is reachable
type Monitor struct {
	cron     *cron.Cron
	pinger   Pinger
	schedule string
	logger   *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc

	online  atomic.Bool
	checked atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
	now       func() time.Time
}

// NewMonitor creates a connection monitor running on the given cron schedule
func NewMonitor(pinger Pinger, schedule string, logger *logrus.Logger) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.PrintfLogger(logger)),
		)),
		pinger:   pinger,
		schedule: schedule,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}
}

// Start runs a first check in the background and schedules the next ones
func (m *Monitor) Start() error {
	m.logger.WithField("schedule", m.schedule).Info("Starting connection monitor")

	_, err := m.cron.AddFunc(m.schedule, func() {
		m.Check(m.ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add connection check job: %w", err)
	}

	m.cron.Start()

	go m.Check(m.ctx)

	return nil
}

// Stop stops scheduling checks, aborts an in-flight ping and waits for it
func (m *Monitor) Stop() {
	m.logger.Info("Stopping connection monitor")
	m.cancel()
	<-m.cron.Stop().Done()
}

// Check pings the remote store once and records the outcome
func (m *Monitor) Check(ctx context.Context) bool {
	err := m.pinger.Ping(ctx)
	if ctx.Err() != nil {
		// shutting down; the outcome says nothing about the remote
		return m.Online()
	}
	online := err == nil

	m.mu.Lock()
	m.lastCheck = m.now()
	m.mu.Unlock()

	was := m.online.Swap(online)
	first := !m.checked.Swap(true)

	switch {
	case first && online:
		m.logger.Info("Remote store is reachable")
	case first:
		m.logger.WithError(err).Warn("Remote store is unreachable, working from local cache")
	case was && !online:
		m.logger.WithError(err).Warn("Connection lost, working from local cache")
	case !was && online:
		m.logger.Info("Connection restored")
	default:
		m.logger.WithField("online", online).Debug("Connection check completed")
	}

	return online
}

// Online returns the result of the last check; false before the first one
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// LastCheck returns when the last check finished
func (m *Monitor) LastCheck() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCheck, !m.lastCheck.IsZero()
}
