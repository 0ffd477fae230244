package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/genricoloni/cmusnotify/internal/domain"
	"go.uber.org/zap"
)

const defaultPollInterval = time.Second

// CmusMonitor polls cmus and turns status differences into events
type CmusMonitor struct {
	logger          *zap.Logger
	querier         Querier
	interval        time.Duration
	events          chan domain.Event
	mu              sync.Mutex
	running         bool
	cancel          context.CancelFunc
	wg              sync.WaitGroup      // Tracks the polling goroutine
	last            *domain.PlayerState // Last snapshot, nil until cmus answered once
	lastDropWarning time.Time           // Rate limiting for "channel full" warnings
	offline         bool                // Last query found cmus not running
}

// NewCmusMonitor creates a new cmus monitor instance
func NewCmusMonitor(logger *zap.Logger, querier Querier, cfg domain.Config) *CmusMonitor {
	interval := time.Duration(cfg.Player().PollIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &CmusMonitor{
		logger:   logger,
		querier:  querier,
		interval: interval,
		events:   make(chan domain.Event, 16),
	}
}

// Start launches the polling loop and returns immediately
func (m *CmusMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}
	m.running = true

	// The start context only bounds startup, polling lives until Stop
	monitorCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel

	m.wg.Add(1)
	go m.run(monitorCtx)

	m.logger.Info("cmus monitor started", zap.Duration("interval", m.interval))
	return nil
}

// Stop gracefully stops the monitor
func (m *CmusMonitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.cancel()
	m.running = false
	m.mu.Unlock()

	// Wait for the producer before closing the channel
	m.wg.Wait()
	close(m.events)

	m.logger.Info("cmus monitor shutdown complete")
	return nil
}

// Events returns a read-only channel of player change events
func (m *CmusMonitor) Events() <-chan domain.Event {
	return m.events
}

func (m *CmusMonitor) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if err := m.poll(ctx); err != nil && ctx.Err() == nil {
			m.logger.Warn("Failed to poll cmus", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			m.logger.Info("Polling goroutine stopped")
			return
		case <-ticker.C:
		}
	}
}

// poll queries cmus once and emits the resulting events
func (m *CmusMonitor) poll(ctx context.Context) error {
	output, err := m.querier.Query(ctx)
	if errors.Is(err, ErrNotRunning) {
		if !m.offline {
			m.logger.Info("cmus is not running, waiting for it")
			m.offline = true
		}
		// A restarted cmus is a fresh start
		m.last = nil
		return nil
	}
	if err != nil {
		return err
	}
	m.offline = false

	state, err := ParseStatus(output)
	if err != nil {
		return fmt.Errorf("failed to parse cmus status: %w", err)
	}

	events := Diff(m.last, state)
	m.last = &state

	for _, event := range events {
		m.emit(event)
	}
	return nil
}

// emit sends without blocking. Dropping under pressure is fine since the engine
// debounces and only the latest track matters.
func (m *CmusMonitor) emit(event domain.Event) {
	select {
	case m.events <- event:
		m.logger.Debug("Player change detected", zap.String("event", fmt.Sprintf("%T", event)))
	default:
		m.logChannelFullWarning()
	}
}

// logChannelFullWarning logs a warning about channel being full, but rate-limited
func (m *CmusMonitor) logChannelFullWarning() {
	const warningInterval = 5 * time.Second
	now := time.Now()

	if now.Sub(m.lastDropWarning) >= warningInterval {
		m.logger.Warn("Events channel full, dropping player event")
		m.lastDropWarning = now
	}
}
