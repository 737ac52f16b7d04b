package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// PresenceManager tracks the annotators active in one room: cursor position,
// shape selection and the item each one is viewing. Payloads are replaced
// wholesale on every update; there is no merging.
type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload // userID -> latest payload
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

// Update stores the latest payload for an annotator and reports whether they
// moved to a different item.
func (pm *PresenceManager) Update(userID string, p *PresencePayload) (itemChanged bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	prev := pm.presences[userID]
	pm.presences[userID] = p
	return prev == nil || prev.ItemID != p.ItemID
}

func (pm *PresenceManager) Remove(userID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, userID)
}

// Snapshot returns a copy of the presence map safe to read after the lock is
// released.
func (pm *PresenceManager) Snapshot() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]*PresencePayload, len(pm.presences))
	for k, v := range pm.presences {
		result[k] = v
	}
	return result
}

// OnItem returns the ids of the annotators currently viewing the given item.
func (pm *PresenceManager) OnItem(itemID string) []string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	var users []string
	for id, p := range pm.presences {
		if p.ItemID == itemID {
			users = append(users, id)
		}
	}
	return users
}

func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.Snapshot()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
