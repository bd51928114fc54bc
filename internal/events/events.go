// Package events fans ingested measurements out to subscribers over Redis.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airx/beds/server/hub/internal/config"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// StatusTTL bounds how long a cached site status survives without fresh readings.
const StatusTTL = 24 * time.Hour

// MeasurementEvent is published once per ingested reading.
type MeasurementEvent struct {
	SiteID      string              `json:"siteId"`
	SensorID    string              `json:"sensorId"`
	SensorCode  string              `json:"sensorCode"`
	Measurement *models.Measurement `json:"measurement"`
	Level       string              `json:"level"`
}

// Publisher delivers measurement events.
type Publisher interface {
	Publish(ctx context.Context, evt MeasurementEvent) error
	Close() error
}

// NopPublisher drops every event. Used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, MeasurementEvent) error { return nil }
func (NopPublisher) Close() error                                    { return nil }

// RedisPublisher publishes events on a channel and caches each site's last level.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisClient creates a client for cfg.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// New returns a Redis publisher when cfg names a host and it answers a ping,
// otherwise a NopPublisher.
func New(ctx context.Context, cfg config.RedisConfig) Publisher {
	if !cfg.Enabled() {
		return NopPublisher{}
	}
	client := NewRedisClient(cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		nuts.L.Warnf("[Events] Redis at %s unreachable, events disabled: %v", cfg.Addr(), err)
		_ = client.Close()
		return NopPublisher{}
	}
	nuts.L.Infof("[Events] Publishing measurements to %s on %s", cfg.Channel, cfg.Addr())
	return NewRedisPublisher(client, cfg.Channel)
}

// StatusKey is where the last level of a site is cached.
func StatusKey(siteID string) string {
	return "beds:site:" + siteID + ":status"
}

func (p *RedisPublisher) Publish(ctx context.Context, evt MeasurementEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	pipe := p.client.TxPipeline()
	pipe.Publish(ctx, p.channel, payload)
	pipe.Set(ctx, StatusKey(evt.SiteID), evt.Level, StatusTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// LastLevel returns the cached level of a site, or "" when none is cached.
func (p *RedisPublisher) LastLevel(ctx context.Context, siteID string) (string, error) {
	level, err := p.client.Get(ctx, StatusKey(siteID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return level, err
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
