package cart

import (
	"encoding/json"
	"fmt"
)

// SnapshotVersion is the persisted layout version. Snapshots carrying any
// other version are discarded.
const SnapshotVersion = 0

type envelope struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

type persistedState struct {
	Items []LineItem `json:"items"`
}

// Encode serializes items into the persisted layout.
func Encode(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	data, err := json.Marshal(envelope{State: persistedState{Items: items}, Version: SnapshotVersion})
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

// Decode parses a persisted snapshot. Entries with an empty id, a
// quantity below one or an id seen earlier in the list are dropped.
func Decode(data []byte) ([]LineItem, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	if env.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, env.Version)
	}

	items := make([]LineItem, 0, len(env.State.Items))
	seen := make(map[string]struct{}, len(env.State.Items))
	for _, it := range env.State.Items {
		if it.ID == "" || it.Quantity < 1 {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		items = append(items, it)
	}
	return items, nil
}
