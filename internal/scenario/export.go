package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

// snapshot is the wire form of a full store export. Scenario order is the
// store's creation order so a round trip preserves List().
type snapshot struct {
	Version   int               `json:"version"`
	Scenarios []models.Scenario `json:"scenarios"`
	Approved  string            `json:"approved,omitempty"`
}

const snapshotVersion = 1

// Export serializes every scenario plus the approval pointer to JSON.
func (s *Store) Export() ([]byte, error) {
	s.mu.RLock()
	approved := s.approved
	s.mu.RUnlock()

	snap := snapshot{
		Version:   snapshotVersion,
		Scenarios: s.List(),
		Approved:  approved,
	}
	return json.MarshalIndent(snap, "", "  ")
}

// Import replaces the store contents with a previously exported snapshot.
// After a successful import, List() and Approved() match the exporting
// store.
func (s *Store) Import(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode scenario snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	items := make(map[string]*models.Scenario, len(snap.Scenarios))
	for i := range snap.Scenarios {
		sc := snap.Scenarios[i]
		if sc.Name == "" {
			return fmt.Errorf("snapshot scenario %d has no name", i)
		}
		items[sc.Name] = &sc
	}
	if snap.Approved != "" {
		if _, ok := items[snap.Approved]; !ok {
			return fmt.Errorf("snapshot approves unknown scenario %q", snap.Approved)
		}
	}

	s.mu.Lock()
	s.items = items
	s.approved = snap.Approved
	s.mu.Unlock()
	return nil
}
