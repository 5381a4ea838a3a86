package bus

import (
	"context"
	"testing"
	"time"

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"

	"github.com/emberfall/npcmind/internal/agent"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("redis endpoint: %v", err)
	}
	return "redis://" + endpoint
}

func TestPublishSubscribe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	bus, err := NewEventBus(startRedis(t), zap.NewNop())
	if err != nil {
		t.Fatalf("new event bus: %v", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ch := bus.Subscribe(ctx, "npc-1")
	// Give the XRead loop a moment to attach before publishing.
	time.Sleep(200 * time.Millisecond)

	want := agent.Event{Kind: agent.EventPerceive, Input: "thunder in the distance", EmotionalValue: -0.3}
	if err := bus.Publish(ctx, "npc-1", want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-ch:
		if got.Kind != want.Kind || got.Input != want.Input {
			t.Errorf("received %+v, want %+v", got, want)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestDispatcherFeedsInbox(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	logger := zap.NewNop()
	bus, err := NewEventBus(startRedis(t), logger)
	if err != nil {
		t.Fatalf("new event bus: %v", err)
	}
	defer bus.Close()

	engine := agent.NewEngine(logger)
	a := agent.New("npc", 1, logger)
	a.Goals.Desires.Add(0, "rest", "basic", 0.2)
	engine.Register(a)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go NewDispatcher(bus, engine, logger).Run(ctx)
	time.Sleep(200 * time.Millisecond)

	ev := agent.Event{Kind: agent.EventSatisfyDesire, Desire: "rest", Amount: 0.3}
	if err := bus.Publish(ctx, a.ID, ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		a.Tick(0.01)
		if a.Goals.Desires.Desires["rest"].Satisfaction > 0 {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Error("satisfy event never reached the agent")
}

func TestDispatcherWatchesLateRegistrations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	logger := zap.NewNop()
	bus, err := NewEventBus(startRedis(t), logger)
	if err != nil {
		t.Fatalf("new event bus: %v", err)
	}
	defer bus.Close()

	engine := agent.NewEngine(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go NewDispatcher(bus, engine, logger).Run(ctx)
	time.Sleep(200 * time.Millisecond)

	// Registered after the dispatcher started, as API-created agents are.
	a := agent.New("newcomer", 1, logger)
	a.Goals.Desires.Add(0, "warmth", "basic", 0.2)
	engine.Register(a)
	time.Sleep(200 * time.Millisecond)

	ev := agent.Event{Kind: agent.EventSatisfyDesire, Desire: "warmth", Amount: 0.4}
	if err := bus.Publish(ctx, a.ID, ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		a.Tick(0.01)
		if a.Goals.Desires.Desires["warmth"].Satisfaction > 0 {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Error("event never reached the late-registered agent")
}

func TestSubscribeSurvivesConnectionLoss(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	bus, err := NewEventBus(startRedis(t), zap.NewNop())
	if err != nil {
		t.Fatalf("new event bus: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := bus.Subscribe(ctx, "npc-9")
	time.Sleep(100 * time.Millisecond)

	// Every XRead fails from here on; the loop should keep retrying.
	bus.Close()

	select {
	case _, open := <-ch:
		if !open {
			t.Fatal("subscription closed on a read error instead of retrying")
		}
	case <-time.After(600 * time.Millisecond):
	}

	cancel()
	select {
	case _, open := <-ch:
		if open {
			t.Error("expected a closed channel after cancel")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("subscription did not stop after cancel")
	}
}
