package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"ssdhealthagent/internal/collector"
	"ssdhealthagent/internal/config"
	"ssdhealthagent/internal/logger"
)

// RedisSender stores the latest snapshot per agent and collector in a Redis
// hash and publishes each snapshot on a channel. Dashboards read the hash
// for current state and subscribe to the channel for updates.
type RedisSender struct {
	client  *redis.Client
	hashKey string
	channel string
	mu      sync.Mutex
	closed  bool
}

// NewRedisSender creates a Redis sender and verifies connectivity.
func NewRedisSender(ctx context.Context, cfg config.RedisConfig) (*RedisSender, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	log := logger.WithComponent("redis-sender")
	log.Info().
		Str("addr", cfg.Addr).
		Str("hash_key", cfg.HashKey).
		Str("channel", cfg.Channel).
		Msg("RedisSender initialized")

	return &RedisSender{
		client:  client,
		hashKey: cfg.HashKey,
		channel: cfg.Channel,
	}, nil
}

// Send stores the snapshot under "<agent_id>:<type>" in the hash and
// publishes it on the channel.
func (s *RedisSender) Send(ctx context.Context, data *collector.MetricData) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("sender is closed")
	}
	s.mu.Unlock()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal metric data: %w", err)
	}

	field := fmt.Sprintf("%s:%s", data.AgentID, data.Type)
	if err := s.client.HSet(ctx, s.hashKey, field, jsonData).Err(); err != nil {
		return fmt.Errorf("Redis HSET %s %s failed: %w", s.hashKey, field, err)
	}

	if s.channel != "" {
		if err := s.client.Publish(ctx, s.channel, jsonData).Err(); err != nil {
			return fmt.Errorf("Redis PUBLISH %s failed: %w", s.channel, err)
		}
	}

	return nil
}

// SendBatch stores multiple metric data items.
func (s *RedisSender) SendBatch(ctx context.Context, data []*collector.MetricData) error {
	for _, d := range data {
		if err := s.Send(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.client.Close()
}
