package feed

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/logging"
	"go.uber.org/zap"

	applog "github.com/kpumuk/smalltalk/internal/logging"
)

func init() {
	// Disable all Redis logging globally using the built-in VoidLogger
	redis.SetLogger(&logging.VoidLogger{})
}

// Redis receives percentages published on a Redis pub/sub channel.
type Redis struct {
	client          *redis.Client
	channel         string
	displayRedisURL string
}

var _ Feed = (*Redis)(nil)

// NewRedis creates a feed subscribed to channel on the server at redisURL.
func NewRedis(redisURL, channel string) (*Redis, error) {
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	if channel == "" {
		return nil, errors.New("redis channel is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.MaxRetries = -1
	opts.DialTimeout = 2 * time.Second
	opts.PoolSize = 1

	return newRedis(redis.NewClient(opts), channel, sanitizeRedisURL(redisURL)), nil
}

func newRedis(client *redis.Client, channel, displayURL string) *Redis {
	return &Redis{
		client:          client,
		channel:         channel,
		displayRedisURL: displayURL,
	}
}

// DisplayRedisURL returns a sanitized URL safe for display.
func (f *Redis) DisplayRedisURL() string {
	return f.displayRedisURL
}

// Close closes the Redis connection.
func (f *Redis) Close() error {
	return f.client.Close()
}

// Run implements Feed. Messages that are not percentages are skipped.
func (f *Redis) Run(ctx context.Context, fn func(percent int)) error {
	pubsub := f.client.Subscribe(ctx, f.channel)
	defer func() {
		_ = pubsub.Close()
	}()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", f.channel, err)
	}
	applog.Debug("subscribed to progress channel",
		zap.String("redis", f.displayRedisURL),
		zap.String("channel", f.channel),
	)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return ErrIncomplete
			}
			percent, err := ParsePercent(msg.Payload)
			if err != nil {
				applog.Warn("skipping progress message", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			fn(percent)
			if percent == 100 {
				return nil
			}
		}
	}
}

func sanitizeRedisURL(redisURL string) string {
	if redisURL == "" {
		return ""
	}
	parsed, err := url.Parse(redisURL)
	if err != nil {
		return redisURL
	}
	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = nil
		} else {
			parsed.User = url.User(username)
		}
	}
	return parsed.String()
}
