package world

import (
	"sync"

	"go.uber.org/zap"

	"github.com/emberfall/npcmind/internal/agent"
)

// Runner is a ClockListener that ticks every registered agent. Agents
// tick in parallel; each agent serializes its own state internally, so
// a tick never observes a half-applied inbox.
type Runner struct {
	engine *agent.Engine
	logger *zap.Logger
}

// NewRunner creates a runner over the engine's agents.
func NewRunner(engine *agent.Engine, logger *zap.Logger) *Runner {
	return &Runner{engine: engine, logger: logger}
}

// OnTick implements ClockListener.
func (r *Runner) OnTick(now, dt float64) {
	agents := r.engine.List()

	var wg sync.WaitGroup
	for _, a := range agents {
		wg.Add(1)
		go func(a *agent.Agent) {
			defer wg.Done()
			a.Tick(dt)
		}(a)
	}
	wg.Wait()

	r.logger.Debug("ticked agents",
		zap.Int("count", len(agents)),
		zap.Float64("sim_time", now))
}
