package agent

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAgentNotFound is returned when an agent ID is not registered.
var ErrAgentNotFound = errors.New("agent not found")

// Engine is the registry of live agents.
type Engine struct {
	agents     map[string]*Agent
	onRegister func(*Agent)
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewEngine creates an empty agent registry.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		agents: make(map[string]*Agent),
		logger: logger,
	}
}

// Register adds an agent to the engine, assigning an ID if missing. Any
// registration hook runs after the agent is visible in the registry.
func (e *Engine) Register(a *Agent) {
	e.mu.Lock()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	e.agents[a.ID] = a
	hook := e.onRegister
	e.mu.Unlock()

	e.logger.Info("registered agent",
		zap.String("id", a.ID),
		zap.String("name", a.Name))
	if hook != nil {
		hook(a)
	}
}

// OnRegister installs a callback invoked for every agent registered from
// now on. A nil fn clears it.
func (e *Engine) OnRegister(fn func(*Agent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onRegister = fn
}

// Get returns an agent by ID.
func (e *Engine) Get(id string) (*Agent, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.agents[id]
	return a, ok
}

// Remove drops an agent from the engine.
func (e *Engine) Remove(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.agents, id)
}

// List returns all registered agents.
func (e *Engine) List() []*Agent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	result := make([]*Agent, 0, len(e.agents))
	for _, a := range e.agents {
		result = append(result, a)
	}
	return result
}
