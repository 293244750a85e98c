package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/goleak"

	"ssdhealthagent/internal/collector"
	"ssdhealthagent/internal/config"
	"ssdhealthagent/internal/sender"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeCollector emits one fixed snapshot per Collect call.
type fakeCollector struct {
	collector.BaseCollector
}

func newFakeCollector(name string, interval time.Duration) *fakeCollector {
	return &fakeCollector{
		BaseCollector: collector.NewBaseCollector(name, interval),
	}
}

func (c *fakeCollector) Configure(cfg config.CollectorConfig) error {
	c.SetEnabled(cfg.Enabled)
	if cfg.Interval > 0 {
		c.SetInterval(cfg.Interval)
	}
	return nil
}

func (c *fakeCollector) Collect(ctx context.Context) (*collector.MetricData, error) {
	return &collector.MetricData{
		Type:      c.Name(),
		Timestamp: time.Now(),
		Data:      collector.StorageHealthData{},
	}, nil
}

// chanSender delivers every sent metric on a channel.
type chanSender struct {
	ch chan *collector.MetricData
}

func newChanSender() *chanSender {
	return &chanSender{ch: make(chan *collector.MetricData, 16)}
}

func (s *chanSender) Send(ctx context.Context, data *collector.MetricData) error {
	s.ch <- data
	return nil
}

func (s *chanSender) SendBatch(ctx context.Context, data []*collector.MetricData) error {
	for _, d := range data {
		if err := s.Send(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (s *chanSender) Close() error { return nil }

var _ sender.Sender = (*chanSender)(nil)

func waitMetric(t *testing.T, s *chanSender, timeout time.Duration) *collector.MetricData {
	t.Helper()
	select {
	case m := <-s.ch:
		return m
	case <-time.After(timeout):
		t.Fatal("timed out waiting for metric")
		return nil
	}
}

func TestScheduler_InitialCollection(t *testing.T) {
	registry := collector.NewRegistry()
	if err := registry.Register(newFakeCollector("fake", time.Minute)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	snd := newChanSender()
	mock := clock.NewMock()
	s := New(registry, snd, "agent-1", "host-1", WithClock(mock))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	// The first collection happens immediately, before any tick.
	m := waitMetric(t, snd, 2*time.Second)
	if m.Type != "fake" {
		t.Errorf("metric type = %q", m.Type)
	}
	if m.AgentID != "agent-1" || m.Hostname != "host-1" {
		t.Errorf("metric not enriched: %+v", m)
	}
}

func TestScheduler_PeriodicCollection(t *testing.T) {
	registry := collector.NewRegistry()
	if err := registry.Register(newFakeCollector("fake", time.Minute)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	snd := newChanSender()
	mock := clock.NewMock()
	s := New(registry, snd, "agent-1", "host-1", WithClock(mock))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	waitMetric(t, snd, 2*time.Second)

	// The ticker is created right after the initial collection; advance the
	// mock clock until the next cycle is observed.
	got := false
	for i := 0; i < 50 && !got; i++ {
		mock.Add(time.Minute)
		select {
		case <-snd.ch:
			got = true
		case <-time.After(50 * time.Millisecond):
		}
	}
	if !got {
		t.Fatal("no periodic collection observed")
	}
}

func TestScheduler_DisabledCollectorNotRun(t *testing.T) {
	registry := collector.NewRegistry()
	c := newFakeCollector("fake", time.Minute)
	_ = c.Configure(config.CollectorConfig{Enabled: false})
	if err := registry.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	snd := newChanSender()
	s := New(registry, snd, "agent-1", "host-1", WithClock(clock.NewMock()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	select {
	case <-snd.ch:
		t.Error("disabled collector should not produce metrics")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestScheduler_StartStop(t *testing.T) {
	registry := collector.NewRegistry()
	if err := registry.Register(newFakeCollector("fake", time.Minute)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	snd := newChanSender()
	s := New(registry, snd, "agent-1", "host-1", WithClock(clock.NewMock()))

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !s.IsRunning() {
		t.Error("IsRunning should be true after Start")
	}

	// Second Start is a no-op.
	if err := s.Start(ctx); err != nil {
		t.Errorf("second Start should be a no-op, got %v", err)
	}

	waitMetric(t, snd, 2*time.Second)

	s.Stop()
	if s.IsRunning() {
		t.Error("IsRunning should be false after Stop")
	}

	// Second Stop is a no-op.
	s.Stop()
}
