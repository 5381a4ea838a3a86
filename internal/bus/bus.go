// Package bus delivers world events to agents over Redis Streams. Hosts
// publish stimuli and outcome feedback onto per-agent streams; the
// dispatcher drains them into agent inboxes between ticks.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/emberfall/npcmind/internal/agent"
)

const streamPrefix = "npcmind:agent:"

// EventBus passes world events to agents via Redis Streams.
type EventBus struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewEventBus connects to Redis and verifies the connection.
func NewEventBus(redisURL string, logger *zap.Logger) (*EventBus, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &EventBus{rdb: rdb, logger: logger}, nil
}

// Publish appends an event to an agent's stream.
func (b *EventBus) Publish(ctx context.Context, agentID string, ev agent.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	stream := streamPrefix + agentID
	_, err = b.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		return fmt.Errorf("publish to %s: %w", stream, err)
	}

	b.logger.Debug("published event",
		zap.String("agent", agentID),
		zap.String("kind", string(ev.Kind)))
	return nil
}

// Subscribe listens for events addressed to an agent. Returns a channel
// that emits events. Cancel the context to stop.
func (b *EventBus) Subscribe(ctx context.Context, agentID string) <-chan agent.Event {
	ch := make(chan agent.Event, 16)
	stream := streamPrefix + agentID

	go func() {
		defer close(ch)
		lastID := "$"

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			results, err := b.rdb.XRead(ctx, &redis.XReadArgs{
				Streams: []string{stream, lastID},
				Count:   10,
				Block:   time.Second * 2,
			}).Result()

			if err != nil {
				if err == context.Canceled || err == context.DeadlineExceeded {
					return
				}
				if err != redis.Nil {
					b.logger.Warn("stream read failed, retrying",
						zap.String("stream", stream), zap.Error(err))
					time.Sleep(250 * time.Millisecond)
				}
				continue
			}

			for _, r := range results {
				for _, msg := range r.Messages {
					lastID = msg.ID
					data, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}
					var ev agent.Event
					if json.Unmarshal([]byte(data), &ev) == nil {
						ch <- ev
					}
				}
			}
		}
	}()

	return ch
}

// Close shuts down the Redis connection.
func (b *EventBus) Close() error {
	return b.rdb.Close()
}

// Dispatcher pumps bus events into agent inboxes. One goroutine per
// agent, stopped by canceling the context passed to Run.
type Dispatcher struct {
	bus    *EventBus
	engine *agent.Engine
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher over the engine's agents.
func NewDispatcher(bus *EventBus, engine *agent.Engine, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{bus: bus, engine: engine, logger: logger}
}

// Run subscribes every currently registered agent, keeps subscribing
// agents registered while it runs, and blocks until the context is
// canceled.
func (d *Dispatcher) Run(ctx context.Context) {
	var mu sync.Mutex
	watched := make(map[string]bool)
	start := func(a *agent.Agent) {
		mu.Lock()
		if watched[a.ID] {
			mu.Unlock()
			return
		}
		watched[a.ID] = true
		mu.Unlock()
		go d.Watch(ctx, a)
	}

	// Hook first so an agent registered mid-startup is never missed.
	d.engine.OnRegister(start)
	for _, a := range d.engine.List() {
		start(a)
	}

	<-ctx.Done()
	d.engine.OnRegister(nil)
}

// Watch pumps one agent's stream into its inbox until the context ends.
func (d *Dispatcher) Watch(ctx context.Context, a *agent.Agent) {
	for ev := range d.bus.Subscribe(ctx, a.ID) {
		a.Enqueue(ev)
	}
	d.logger.Debug("dispatcher stopped", zap.String("agent", a.ID))
}
