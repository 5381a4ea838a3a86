package store

import (
	"context"
	"fmt"
	"time"

	"github.com/emberfall/npcmind/internal/agent"
)

// SnapshotInfo describes one persisted agent snapshot.
type SnapshotInfo struct {
	AgentID   string
	Name      string
	SimTime   float64
	SavedAt   time.Time
	SizeBytes int
}

// SaveSnapshot upserts an agent's serialized state keyed by agent ID.
func (s *Store) SaveSnapshot(ctx context.Context, a *agent.Agent) error {
	data, err := a.Snapshot()
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO agent_snapshots (agent_id, name, sim_time, state, saved_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (agent_id) DO UPDATE SET
			name = EXCLUDED.name,
			sim_time = EXCLUDED.sim_time,
			state = EXCLUDED.state,
			saved_at = EXCLUDED.saved_at`,
		a.ID, a.Name, a.Now(), data,
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", a.ID, err)
	}
	return nil
}

// LoadSnapshot retrieves an agent's serialized state by ID. The caller
// restores it with agent.Restore.
func (s *Store) LoadSnapshot(ctx context.Context, agentID string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT state FROM agent_snapshots WHERE agent_id = $1`, agentID,
	).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", agentID, err)
	}
	return data, nil
}

// ListSnapshots returns metadata for every stored snapshot, newest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.Query(ctx, `
		SELECT agent_id, name, sim_time, saved_at, octet_length(state)
		FROM agent_snapshots
		ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.AgentID, &info.Name, &info.SimTime, &info.SavedAt, &info.SizeBytes); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// DeleteSnapshot removes an agent's stored state.
func (s *Store) DeleteSnapshot(ctx context.Context, agentID string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM agent_snapshots WHERE agent_id = $1`, agentID)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", agentID, err)
	}
	return nil
}
