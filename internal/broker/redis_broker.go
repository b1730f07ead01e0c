package broker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/Baaaki/vwap/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	SwapEventsChannel = "swaps:events"
	recentEventsKey   = "swaps:recent"
	recentEventsLimit = 100
)

// ErrAlreadySubscribed is returned by Subscribe while an earlier
// subscription of the same broker is still open.
var ErrAlreadySubscribed = errors.New("already subscribed to swap events")

// RedisSwapBroker publishes swap events on a Redis channel and keeps the
// most recent ones in a capped list for late readers.
type RedisSwapBroker struct {
	client *redis.Client

	mu     sync.Mutex
	pubsub *redis.PubSub
}

func NewRedisSwapBroker(ctx context.Context, redisURL string) (*RedisSwapBroker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisSwapBroker{client: client}, nil
}

func (r *RedisSwapBroker) Publish(ctx context.Context, event SwapEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, SwapEventsChannel, data)
		pipe.LPush(ctx, recentEventsKey, data)
		pipe.LTrim(ctx, recentEventsKey, 0, recentEventsLimit-1)
		return nil
	})
	return err
}

// RecentEvents returns up to limit events, newest first.
func (r *RedisSwapBroker) RecentEvents(ctx context.Context, limit int) ([]SwapEvent, error) {
	if limit <= 0 || limit > recentEventsLimit {
		limit = recentEventsLimit
	}

	raw, err := r.client.LRange(ctx, recentEventsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	events := make([]SwapEvent, 0, len(raw))
	for _, item := range raw {
		var event SwapEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			logger.Log.Warn("Skipping malformed swap event", zap.Error(err))
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Subscribe streams events until ctx is cancelled or Close is called.
// A broker holds one subscription at a time.
func (r *RedisSwapBroker) Subscribe(ctx context.Context) (<-chan SwapEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pubsub != nil {
		return nil, ErrAlreadySubscribed
	}

	pubsub := r.client.Subscribe(ctx, SwapEventsChannel)
	// Wait for the subscription to be confirmed so no event is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}
	r.pubsub = pubsub

	events := make(chan SwapEvent, 100)

	go func() {
		defer close(events)

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event SwapEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

func (r *RedisSwapBroker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisSwapBroker) Close() error {
	r.mu.Lock()
	if r.pubsub != nil {
		r.pubsub.Close()
	}
	r.mu.Unlock()
	return r.client.Close()
}
