package state

import (
	"context"
	"sync"
	"time"

	"github.com/toolsascode/revmig/internal/logger"
)

// Verifier checks persisted history against the known revisions
type Verifier interface {
	Verify(ctx context.Context) error
}

// DriftMonitor periodically verifies history in the background and logs drift
type DriftMonitor struct {
	verifier Verifier
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	lastErr error
	lastRun time.Time
}

// NewDriftMonitor creates a new drift monitor
func NewDriftMonitor(verifier Verifier, interval time.Duration) *DriftMonitor {
	return &DriftMonitor{
		verifier: verifier,
		interval: interval,
	}
}

// Start starts the background verification loop. A stopped monitor can be
// started again.
func (m *DriftMonitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		// Run immediately on start
		m.check(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.check(ctx)
			}
		}
	}()
}

// Stop stops the background verification loop
func (m *DriftMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.cancel()
	m.cancel = nil
	m.running = false
}

// Status returns the outcome of the most recent check
func (m *DriftMonitor) Status() (lastRun time.Time, lastErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRun, m.lastErr
}

func (m *DriftMonitor) check(ctx context.Context) {
	err := m.verifier.Verify(ctx)
	if err != nil && ctx.Err() == nil {
		logger.Errorf("Drift check failed: %v", err)
	} else if err == nil {
		logger.Debug("Drift check passed")
	}

	m.mu.Lock()
	m.lastRun = time.Now()
	m.lastErr = err
	m.mu.Unlock()
}
