// Package realtime pushes content snapshots to websocket subscribers when a topic changes.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChangesChannel is the Redis pub/sub channel carrying topic changes.
const ChangesChannel = "arcade:changes"

// Change announces that a topic's content was written.
type Change struct {
	Topic string    `json:"topic"`
	At    time.Time `json:"at"`
}

// Broker fans topic changes out to every subscribed dispatcher.
type Broker interface {
	Publish(ctx context.Context, topic string) error
	Subscribe(ctx context.Context) (<-chan Change, error)
	Close() error
}

// LocalBroker delivers changes within the process.
type LocalBroker struct {
	mu     sync.Mutex
	subs   map[chan Change]struct{}
	buffer int
	closed bool
}

// NewLocalBroker constructs an in-process broker. buffer sizes each subscriber channel.
func NewLocalBroker(buffer int) *LocalBroker {
	if buffer <= 0 {
		buffer = 64
	}
	return &LocalBroker{subs: make(map[chan Change]struct{}), buffer: buffer}
}

// Publish implements Broker. A subscriber whose buffer is full misses the change.
func (b *LocalBroker) Publish(ctx context.Context, topic string) error {
	change := Change{Topic: topic, At: time.Now().UTC()}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("local broker closed")
	}
	for ch := range b.subs {
		select {
		case ch <- change:
		default:
		}
	}
	return nil
}

// Subscribe implements Broker. The channel closes when ctx is done or the broker closes.
func (b *LocalBroker) Subscribe(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, b.buffer)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, fmt.Errorf("local broker closed")
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}()
	return ch, nil
}

// Close implements Broker.
func (b *LocalBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	return nil
}

// RedisBroker relays changes through Redis pub/sub so every instance hears every write.
type RedisBroker struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisBroker constructs a broker on channel, or ChangesChannel when empty.
func NewRedisBroker(client *redis.Client, channel string, logger *zap.Logger) *RedisBroker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if channel == "" {
		channel = ChangesChannel
	}
	return &RedisBroker{client: client, channel: channel, logger: logger}
}

// Publish implements Broker.
func (b *RedisBroker) Publish(ctx context.Context, topic string) error {
	payload, err := encodeChange(Change{Topic: topic, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Subscribe implements Broker.
func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan Change, error) {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	out := make(chan Change, 64)
	go func() {
		defer close(out)
		defer sub.Close()
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				change, err := decodeChange(msg.Payload)
				if err != nil {
					b.logger.Warn("discard malformed change", zap.String("payload", msg.Payload), zap.Error(err))
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close implements Broker. The Redis client is owned by the caller.
func (b *RedisBroker) Close() error {
	return nil
}

func encodeChange(change Change) (string, error) {
	raw, err := json.Marshal(change)
	if err != nil {
		return "", fmt.Errorf("encode change: %w", err)
	}
	return string(raw), nil
}

func decodeChange(payload string) (Change, error) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return Change{}, fmt.Errorf("decode change: %w", err)
	}
	if change.Topic == "" {
		return Change{}, fmt.Errorf("decode change: missing topic")
	}
	return change, nil
}
