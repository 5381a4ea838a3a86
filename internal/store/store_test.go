package store

import (
	"context"
	"testing"

	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"github.com/emberfall/npcmind/internal/agent"
)

func startStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpg.Run(ctx, "postgres:16-alpine",
		tcpg.WithDatabase("npcmind_test"),
		tcpg.WithUsername("test"),
		tcpg.WithPassword("test"),
		tcpg.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("pg connection string: %v", err)
	}

	s, err := New(dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(s.Close)

	if err := s.Migrate(ctx, "../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestSnapshotPersistence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	s := startStore(t)
	ctx := context.Background()
	logger := zap.NewNop()

	a := agent.New("villager", 3, logger)
	agent.SeedDefaults(a)
	a.Perceive("market day begins", 0.3)
	a.Tick(2)

	if err := s.SaveSnapshot(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := s.LoadSnapshot(ctx, a.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	restored, err := agent.Restore(data, 3, logger)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Clock != a.Clock || restored.Name != a.Name {
		t.Errorf("restored clock=%f name=%s, want clock=%f name=%s",
			restored.Clock, restored.Name, a.Clock, a.Name)
	}

	// Saving again must overwrite, not duplicate.
	a.Tick(1)
	if err := s.SaveSnapshot(ctx, a); err != nil {
		t.Fatalf("resave: %v", err)
	}
	infos, err := s.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(infos))
	}
	if infos[0].SimTime != a.Clock {
		t.Errorf("listed sim time = %f, want %f", infos[0].SimTime, a.Clock)
	}

	if err := s.DeleteSnapshot(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.LoadSnapshot(ctx, a.ID); err == nil {
		t.Error("load succeeded after delete")
	}
}
