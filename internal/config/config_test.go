package config

import (
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.SenderType != "file" {
		t.Errorf("SenderType = %q, want file", cfg.SenderType)
	}
	if cfg.Redis.HashKey != "SSD_HEALTH" {
		t.Errorf("Redis.HashKey = %q", cfg.Redis.HashKey)
	}
	if cfg.Kafka.Topic != "storage-health" {
		t.Errorf("Kafka.Topic = %q", cfg.Kafka.Topic)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestParse_Overrides(t *testing.T) {
	data := []byte(`{
		"Agent": {"ID": "rack7-sw2"},
		"SenderType": "kafka",
		"Kafka": {
			"Brokers": ["kafka1:9092", "kafka2:9092"],
			"Topic": "ssd-metrics",
			"RetryBackoff": "250ms",
			"Timeout": "5s"
		},
		"Collectors": {
			"storage_health": {
				"Enabled": true,
				"Interval": "10m",
				"Devices": ["/dev/sda"]
			}
		}
	}`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Agent.ID != "rack7-sw2" {
		t.Errorf("Agent.ID = %q", cfg.Agent.ID)
	}
	if cfg.SenderType != "kafka" {
		t.Errorf("SenderType = %q", cfg.SenderType)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Kafka.RetryBackoff != 250*time.Millisecond {
		t.Errorf("RetryBackoff = %v", cfg.Kafka.RetryBackoff)
	}
	if cfg.Kafka.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Kafka.Timeout)
	}

	cc, ok := cfg.Collectors["storage_health"]
	if !ok {
		t.Fatal("storage_health collector config missing")
	}
	if cc.Interval != 10*time.Minute {
		t.Errorf("Interval = %v", cc.Interval)
	}
	if len(cc.Devices) != 1 || cc.Devices[0] != "/dev/sda" {
		t.Errorf("Devices = %v", cc.Devices)
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	data := []byte(`{"Collectors": {"storage_health": {"Interval": "soon"}}}`)

	if _, err := Parse(data); err == nil {
		t.Error("expected error for invalid interval")
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	if _, err := Parse([]byte(`{`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestMerge_KeepsDefaultsForZeroValues(t *testing.T) {
	cfg := DefaultConfig()
	other := &Config{
		SenderType: "redis",
		Collectors: map[string]CollectorConfig{},
	}

	cfg.Merge(other)

	if cfg.SenderType != "redis" {
		t.Errorf("SenderType = %q", cfg.SenderType)
	}
	// Untouched sections keep their defaults.
	if cfg.Kafka.Topic != "storage-health" {
		t.Errorf("Kafka.Topic = %q", cfg.Kafka.Topic)
	}
	if cfg.File.FilePath == "" {
		t.Error("File.FilePath default lost")
	}
}

func TestGetAgentID_FallsBackToHostname(t *testing.T) {
	cfg := DefaultConfig()

	if got := GetAgentID(cfg); got == "" {
		t.Error("agent ID should never be empty")
	}

	cfg.Agent.ID = "agent-42"
	if got := GetAgentID(cfg); got != "agent-42" {
		t.Errorf("GetAgentID = %q", got)
	}
}
