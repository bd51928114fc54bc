package events

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/airx/beds/server/hub/internal/config"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client, *RedisPublisher) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client, NewRedisPublisher(client, "beds:measurements")
}

func TestPublishDeliversAndCachesLevel(t *testing.T) {
	ctx := context.Background()
	mr, client, pub := setupTestRedis(t)

	sub := client.Subscribe(ctx, "beds:measurements")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	shake := 0.35
	evt := MeasurementEvent{
		SiteID:     "site-1",
		SensorID:   "sns-1",
		SensorCode: "S-1",
		Level:      "ALERT",
		Measurement: &models.Measurement{
			ID:        "msr-1",
			SensorID:  "sns-1",
			CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			Metrics:   models.Metrics{Shake: &shake},
		},
	}
	require.NoError(t, pub.Publish(ctx, evt))

	select {
	case msg := <-sub.Channel():
		var got MeasurementEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "site-1", got.SiteID)
		assert.Equal(t, "ALERT", got.Level)
		require.NotNil(t, got.Measurement)
		assert.InDelta(t, 0.35, *got.Measurement.Metrics.Shake, 1e-9)
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}

	cached, err := mr.Get(StatusKey("site-1"))
	require.NoError(t, err)
	assert.Equal(t, "ALERT", cached)

	level, err := pub.LastLevel(ctx, "site-1")
	require.NoError(t, err)
	assert.Equal(t, "ALERT", level)
}

func TestLastLevelMissing(t *testing.T) {
	_, _, pub := setupTestRedis(t)

	level, err := pub.LastLevel(context.Background(), "site-none")
	require.NoError(t, err)
	assert.Empty(t, level)
}

func TestNewFallsBackToNop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.IsType(t, NopPublisher{}, New(ctx, config.RedisConfig{}))

	mr := miniredis.RunT(t)
	cfg := config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr), Channel: "c"}
	pub := New(ctx, cfg)
	defer pub.Close()
	assert.IsType(t, &RedisPublisher{}, pub)
}

func mustPort(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return port
}
