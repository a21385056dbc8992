package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultPoolSize   = 20
	defaultOpTimeout  = 2 * time.Second
	defaultRetries    = 5
	defaultRetryWait  = 500 * time.Millisecond
	maxRetryWait      = 5 * time.Second
	readinessHeadroom = time.Second
)

// Config holds the client settings. Operation timeouts stay below the
// readiness check budget so a stalled Redis fails the check instead of
// hanging it.
type Config struct {
	Addr      string
	DB        int
	PoolSize  int
	OpTimeout time.Duration
	// Retries is how many pings Connect attempts before giving up.
	Retries   int
	RetryWait time.Duration
}

func (c Config) withDefaults() Config {
	if c.PoolSize <= 0 {
		c.PoolSize = defaultPoolSize
	}
	if c.OpTimeout <= 0 {
		c.OpTimeout = defaultOpTimeout
	}
	if c.Retries <= 0 {
		c.Retries = defaultRetries
	}
	if c.RetryWait <= 0 {
		c.RetryWait = defaultRetryWait
	}
	return c
}

// NewClient builds a client without touching the network.
func NewClient(cfg Config) *redis.Client {
	cfg = cfg.withDefaults()
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.PoolSize / 4,
		DialTimeout:  cfg.OpTimeout + readinessHeadroom,
		ReadTimeout:  cfg.OpTimeout,
		WriteTimeout: cfg.OpTimeout,
		PoolTimeout:  cfg.OpTimeout + readinessHeadroom,
	})
}

// Connect returns a client once Redis answers a ping. Failed pings are
// retried with doubling waits; the last error is returned when ctx ends or
// the attempts run out.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*redis.Client, error) {
	cfg = cfg.withDefaults()
	client := NewClient(cfg)

	wait := cfg.RetryWait
	var err error
	for attempt := 1; attempt <= cfg.Retries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.OpTimeout)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return client, nil
		}

		log.Warn().Err(err).Str("addr", cfg.Addr).Int("attempt", attempt).Msg("redis not reachable yet")
		if attempt == cfg.Retries {
			break
		}
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", ctx.Err())
		case <-time.After(wait):
		}
		wait = min(wait*2, maxRetryWait)
	}

	_ = client.Close()
	return nil, fmt.Errorf("redis ping after %d attempts: %w", cfg.Retries, err)
}
