// Package scheduler provides periodic health collection scheduling.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"ssdhealthagent/internal/collector"
	"ssdhealthagent/internal/logger"
	"ssdhealthagent/internal/sender"
)

const (
	// collectTimeout bounds one collection cycle. Vendor diagnostic tools
	// have no timeout of their own; a hung tool is cut off here.
	collectTimeout = 2 * time.Minute

	sendTimeout = 10 * time.Second
)

// Scheduler manages the periodic collection of health snapshots.
type Scheduler struct {
	registry *collector.Registry
	sender   sender.Sender
	agentID  string
	hostname string
	clock    clock.Clock

	mu        sync.Mutex
	running   bool
	parentCtx context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// Option customizes the scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock. Tests use a mock clock to advance
// collection intervals without sleeping.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// New creates a new scheduler with the given components.
func New(registry *collector.Registry, snd sender.Sender, agentID, hostname string, opts ...Option) *Scheduler {
	s := &Scheduler{
		registry: registry,
		sender:   snd,
		agentID:  agentID,
		hostname: hostname,
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the collection schedule, one goroutine per enabled collector.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true

	s.parentCtx = ctx
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	log := logger.WithComponent("scheduler")
	log.Info().Msg("Starting scheduler")

	collectors := s.registry.EnabledCollectors()
	log.Info().Int("enabled_count", len(collectors)).Msg("Enabled collectors count")
	for _, c := range collectors {
		s.wg.Add(1)
		go s.runCollector(ctx, c)
	}

	return nil
}

// Stop stops the scheduler and waits for all collectors to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	log := logger.WithComponent("scheduler")
	log.Info().Msg("Stopping scheduler, waiting for collectors to finish")

	s.wg.Wait()
	log.Info().Msg("Scheduler stopped")
}

// Reconfigure restarts the collector loops so that interval and enablement
// changes take effect. No-op when the scheduler is not running.
func (s *Scheduler) Reconfigure() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	parent := s.parentCtx
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.mu.Unlock()

	log := logger.WithComponent("scheduler")
	collectors := s.registry.EnabledCollectors()
	log.Info().Int("enabled_count", len(collectors)).Msg("Restarting collectors after reconfigure")
	for _, c := range collectors {
		s.wg.Add(1)
		go s.runCollector(ctx, c)
	}
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) runCollector(ctx context.Context, c collector.Collector) {
	defer s.wg.Done()

	log := logger.WithComponent("scheduler")
	name := c.Name()
	interval := c.Interval()

	log.Info().
		Str("collector", name).
		Dur("interval", interval).
		Msg("Starting collector")

	// Initial collection
	s.collect(ctx, c)

	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("collector", name).Msg("Collector stopped")
			return
		case <-ticker.C:
			s.collect(ctx, c)
		}
	}
}

func (s *Scheduler) collect(ctx context.Context, c collector.Collector) {
	log := logger.WithComponent("scheduler")
	name := c.Name()

	collectCtx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()

	startTime := s.clock.Now()
	data, err := c.Collect(collectCtx)
	duration := s.clock.Since(startTime)

	if err != nil {
		log.Error().
			Err(err).
			Str("collector", name).
			Dur("duration", duration).
			Msg("Collection failed")
		return
	}

	if data == nil {
		log.Warn().
			Str("collector", name).
			Msg("Collector returned nil data")
		return
	}

	data.AgentID = s.agentID
	data.Hostname = s.hostname

	sendCtx, sendCancel := context.WithTimeout(ctx, sendTimeout)
	defer sendCancel()

	if err := s.sender.Send(sendCtx, data); err != nil {
		log.Error().
			Err(err).
			Str("collector", name).
			Msg("Failed to send snapshot")
		return
	}

	log.Debug().
		Str("collector", name).
		Dur("duration", duration).
		Msg("Collection completed")
}
