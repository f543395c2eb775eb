package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	"github.com/noah-isme/arcade-hub-api/pkg/jobs"
)

const snapshotJob = "live_snapshot"

// SnapshotSource builds the current payload for a topic.
type SnapshotSource interface {
	Snapshot(ctx context.Context, topic string) (interface{}, error)
}

// DispatcherConfig sizes the snapshot worker pool.
type DispatcherConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// Dispatcher turns broker changes into snapshot jobs and broadcasts the results.
type Dispatcher struct {
	broker Broker
	hub    *Hub
	source SnapshotSource
	queue  *jobs.Queue
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDispatcher wires a dispatcher; call Start to begin consuming changes.
func NewDispatcher(broker Broker, hub *Hub, source SnapshotSource, cfg DispatcherConfig, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	d := &Dispatcher{broker: broker, hub: hub, source: source, logger: logger, now: time.Now}
	d.queue = jobs.NewQueue("live", d.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: 64,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return d
}

// Publish forwards a topic change to the broker.
func (d *Dispatcher) Publish(ctx context.Context, topic string) error {
	return d.broker.Publish(ctx, topic)
}

// Start subscribes to the broker and runs the worker pool until ctx is done or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	changes, err := d.broker.Subscribe(ctx)
	if err != nil {
		cancel()
		return err
	}
	d.queue.Start(ctx)

	d.cancel = cancel
	d.done = make(chan struct{})
	go d.consume(ctx, changes, d.done)
	return nil
}

// Stop halts consumption and waits for the workers.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	d.queue.Stop()
}

// Message encodes the current snapshot of topic as a live message.
func (d *Dispatcher) Message(ctx context.Context, topic string) ([]byte, error) {
	data, err := d.source.Snapshot(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("build %s snapshot: %w", topic, err)
	}
	payload, err := json.Marshal(models.LiveMessage{Topic: topic, Data: data, SentAt: d.now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("encode %s snapshot: %w", topic, err)
	}
	return payload, nil
}

func (d *Dispatcher) consume(ctx context.Context, changes <-chan Change, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			if !models.ValidTopic(change.Topic) {
				d.logger.Warn("ignore change for unknown topic", zap.String("topic", change.Topic))
				continue
			}
			if !d.hub.Subscribed(change.Topic) {
				continue
			}
			job := jobs.Job{ID: uuid.NewString(), Type: snapshotJob, Payload: change.Topic}
			if err := d.queue.Enqueue(job); err != nil {
				d.logger.Warn("enqueue live snapshot", zap.String("topic", change.Topic), zap.Error(err))
			}
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, job jobs.Job) error {
	topic, ok := job.Payload.(string)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	payload, err := d.Message(ctx, topic)
	if err != nil {
		return err
	}
	d.hub.Broadcast(topic, payload)
	return nil
}
