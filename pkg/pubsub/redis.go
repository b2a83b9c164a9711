package pubsub

import (
	"context"
	"fmt"
	"sync"

	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type subscription struct {
	pubsub   *redis.PubSub
	channels []string
	cancel   context.CancelFunc
}

type redisPubSub struct {
	client *redis.Client
	logger *logger.CanonicalLogger

	mu   sync.Mutex
	subs []*subscription
}

func NewRedisPubSub(ctx context.Context, cfg RedisConfig, log *logger.CanonicalLogger) (PubSub, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	log.Info("redis client initialized", logger.String("addr", addr))

	return &redisPubSub{
		client: client,
		logger: log,
	}, nil
}

// Publish publishes a message to a Redis channel
func (r *redisPubSub) Publish(ctx context.Context, channel string, message string) error {
	if err := r.client.Publish(ctx, channel, message).Err(); err != nil {
		r.logger.WithError(err).Error("failed to publish message to redis")
		return err
	}
	return nil
}

// Ping checks if Redis connection is healthy
func (r *redisPubSub) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Subscribe subscribes to Redis channels. The returned channel is closed
// when the subscription is removed or ctx is done.
func (r *redisPubSub) Subscribe(ctx context.Context, channels ...string) (<-chan Message, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("no channels to subscribe")
	}

	ps := r.client.Subscribe(ctx, channels...)
	// Wait for the subscription confirmation so callers know the
	// channel is live before they rely on it.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %v: %w", channels, err)
	}

	listenCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{pubsub: ps, channels: channels, cancel: cancel}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()

	out := make(chan Message, 16)
	go r.listen(listenCtx, ps, out)

	r.logger.Info("subscribed to redis channels", zap.Strings("channels", channels))
	return out, nil
}

// Unsubscribe removes every subscription that covers one of channels.
func (r *redisPubSub) Unsubscribe(ctx context.Context, channels ...string) error {
	r.mu.Lock()
	var keep, drop []*subscription
	for _, sub := range r.subs {
		if covers(sub.channels, channels) {
			drop = append(drop, sub)
		} else {
			keep = append(keep, sub)
		}
	}
	r.subs = keep
	r.mu.Unlock()

	var firstErr error
	for _, sub := range drop {
		sub.cancel()
		if err := sub.pubsub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes all subscriptions and the Redis connection
func (r *redisPubSub) Close() error {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	for _, sub := range subs {
		sub.cancel()
		_ = sub.pubsub.Close()
	}
	if err := r.client.Close(); err != nil {
		r.logger.WithError(err).Error("failed to close redis client")
		return err
	}
	return nil
}

func (r *redisPubSub) listen(ctx context.Context, ps *redis.PubSub, out chan<- Message) {
	defer close(out)
	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("stopping redis listener")
			return
		case m, ok := <-ch:
			if !ok {
				r.logger.Debug("redis pubsub channel closed")
				return
			}
			select {
			case out <- Message{Channel: m.Channel, Payload: m.Payload}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func covers(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
