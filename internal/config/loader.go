package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// rawConfig is used for JSON unmarshaling with duration strings.
type rawConfig struct {
	Agent      AgentConfig                   `json:"Agent"`
	SenderType string                        `json:"SenderType"`
	File       FileConfig                    `json:"File"`
	Kafka      rawKafkaConfig                `json:"Kafka"`
	Redis      RedisConfig                   `json:"Redis"`
	SOCKSProxy SOCKSConfig                   `json:"SocksProxy"`
	Logging    rawLoggingConfig              `json:"Logging"`
	Collectors map[string]rawCollectorConfig `json:"Collectors"`
}

type rawKafkaConfig struct {
	Brokers        []string `json:"Brokers"`
	Topic          string   `json:"Topic"`
	Compression    string   `json:"Compression"`
	RequiredAcks   int      `json:"RequiredAcks"`
	MaxRetries     int      `json:"MaxRetries"`
	RetryBackoff   string   `json:"RetryBackoff"`
	FlushFrequency string   `json:"FlushFrequency"`
	FlushMessages  int      `json:"FlushMessages"`
	BatchSize      int      `json:"BatchSize"`
	Timeout        string   `json:"Timeout"`
	EnableTLS      bool     `json:"EnableTLS"`
	TLSCertFile    string   `json:"TLSCertFile"`
	TLSKeyFile     string   `json:"TLSKeyFile"`
	TLSCAFile      string   `json:"TLSCAFile"`
	SASLEnabled    bool     `json:"SASLEnabled"`
	SASLMechanism  string   `json:"SASLMechanism"`
	SASLUser       string   `json:"SASLUser"`
	SASLPassword   string   `json:"SASLPassword"`
}

type rawCollectorConfig struct {
	Enabled  bool     `json:"Enabled"`
	Interval string   `json:"Interval"`
	Devices  []string `json:"Devices,omitempty"`
}

type rawLoggingConfig struct {
	Level      string `json:"Level"`
	FilePath   string `json:"FilePath"`
	MaxSizeMB  int    `json:"MaxSizeMB"`
	MaxBackups int    `json:"MaxBackups"`
	MaxAgeDays int    `json:"MaxAgeDays"`
	Compress   bool   `json:"Compress"`
	Console    bool   `json:"Console"`
}

// Load reads configuration from the specified file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses configuration from JSON bytes, layered over defaults.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	parsed, err := convertRawConfig(&raw)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.Merge(parsed)
	return cfg, nil
}

func convertRawConfig(raw *rawConfig) (*Config, error) {
	cfg := &Config{
		Agent:      raw.Agent,
		SenderType: raw.SenderType,
		File:       raw.File,
		Redis:      raw.Redis,
		SOCKSProxy: raw.SOCKSProxy,
		Collectors: map[string]CollectorConfig{},
	}

	kafka, err := convertRawKafka(&raw.Kafka)
	if err != nil {
		return nil, err
	}
	cfg.Kafka = *kafka

	cfg.Logging.Level = raw.Logging.Level
	cfg.Logging.FilePath = raw.Logging.FilePath
	cfg.Logging.MaxSizeMB = raw.Logging.MaxSizeMB
	cfg.Logging.MaxBackups = raw.Logging.MaxBackups
	cfg.Logging.MaxAgeDays = raw.Logging.MaxAgeDays
	cfg.Logging.Compress = raw.Logging.Compress
	cfg.Logging.Console = raw.Logging.Console

	for name, rc := range raw.Collectors {
		cc := CollectorConfig{
			Enabled: rc.Enabled,
			Devices: rc.Devices,
		}
		if rc.Interval != "" {
			d, err := time.ParseDuration(rc.Interval)
			if err != nil {
				return nil, fmt.Errorf("invalid interval for collector %s: %w", name, err)
			}
			cc.Interval = d
		}
		cfg.Collectors[name] = cc
	}

	return cfg, nil
}

func convertRawKafka(raw *rawKafkaConfig) (*KafkaConfig, error) {
	cfg := &KafkaConfig{
		Brokers:       raw.Brokers,
		Topic:         raw.Topic,
		Compression:   raw.Compression,
		RequiredAcks:  raw.RequiredAcks,
		MaxRetries:    raw.MaxRetries,
		FlushMessages: raw.FlushMessages,
		BatchSize:     raw.BatchSize,
		EnableTLS:     raw.EnableTLS,
		TLSCertFile:   raw.TLSCertFile,
		TLSKeyFile:    raw.TLSKeyFile,
		TLSCAFile:     raw.TLSCAFile,
		SASLEnabled:   raw.SASLEnabled,
		SASLMechanism: raw.SASLMechanism,
		SASLUser:      raw.SASLUser,
		SASLPassword:  raw.SASLPassword,
	}

	var err error
	if cfg.RetryBackoff, err = parseDuration(raw.RetryBackoff, "Kafka.RetryBackoff"); err != nil {
		return nil, err
	}
	if cfg.FlushFrequency, err = parseDuration(raw.FlushFrequency, "Kafka.FlushFrequency"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = parseDuration(raw.Timeout, "Kafka.Timeout"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(s, field string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", field, err)
	}
	return d, nil
}
