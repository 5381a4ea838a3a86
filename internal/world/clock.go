// Package world drives simulation time and fans ticks out to agents.
package world

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ClockListener receives simulation tick events. The clock hands each
// listener the new simulation time and the elapsed simulation delta.
type ClockListener interface {
	OnTick(now, dt float64)
}

// Clock advances simulation time on a real-time ticker with a speed
// multiplier. Simulation time is a float starting at zero, in abstract
// units decoupled from wall time.
type Clock struct {
	speed     float64 // sim units per real second, 1.0 = one unit per second
	interval  time.Duration
	simTime   float64
	listeners []ClockListener
	mu        sync.RWMutex
	cancel    context.CancelFunc
	logger    *zap.Logger
}

// NewClock creates a clock with the given tick interval and speed multiplier.
func NewClock(interval time.Duration, speed float64, logger *zap.Logger) *Clock {
	return &Clock{
		speed:    speed,
		interval: interval,
		logger:   logger,
	}
}

// AddListener registers a tick listener.
func (c *Clock) AddListener(l ClockListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// SimTime returns current simulation time.
func (c *Clock) SimTime() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.simTime
}

// SetSpeed changes the time multiplier.
func (c *Clock) SetSpeed(speed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = speed
}

// Advance steps simulation time by dt immediately, outside the ticker.
// Hosts use this for deterministic, manually driven simulations.
func (c *Clock) Advance(dt float64) {
	c.step(dt)
}

// Start begins the tick loop in a background goroutine.
func (c *Clock) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.loop(ctx)
	c.logger.Info("clock started",
		zap.Duration("interval", c.interval),
		zap.Float64("speed", c.speed))
}

// Stop halts the tick loop.
func (c *Clock) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.logger.Info("clock stopped")
	}
}

func (c *Clock) loop(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.RLock()
			dt := c.interval.Seconds() * c.speed
			c.mu.RUnlock()
			c.step(dt)
		}
	}
}

func (c *Clock) step(dt float64) {
	c.mu.Lock()
	c.simTime += dt
	now := c.simTime
	listeners := make([]ClockListener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l.OnTick(now, dt)
	}
}
