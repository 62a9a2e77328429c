package memory

import (
	"context"
	"sort"
	"sync"

	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
)

// Roster is the process-scoped presence registry: session id → connection
// id → participant. Everything here is ephemeral and lost on restart,
// which is acceptable for presence.
type Roster struct {
	mu       sync.RWMutex
	sessions map[string]map[string]entities.Participant
}

func NewRoster() *Roster {
	return &Roster{sessions: make(map[string]map[string]entities.Participant)}
}

func (r *Roster) Join(_ context.Context, sessionID string, participant entities.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	connections, ok := r.sessions[sessionID]
	if !ok {
		connections = make(map[string]entities.Participant)
		r.sessions[sessionID] = connections
	}
	participant.Ready = false
	connections[participant.ConnectionID] = participant
	return nil
}

func (r *Roster) SetReady(_ context.Context, sessionID string, connectionID string, ready bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	connections, ok := r.sessions[sessionID]
	if !ok {
		return false, nil
	}
	participant, ok := connections[connectionID]
	if !ok {
		return false, nil
	}
	participant.Ready = ready
	connections[connectionID] = participant
	return true, nil
}

func (r *Roster) Remove(_ context.Context, connectionID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	affected := make([]string, 0)
	for sessionID, connections := range r.sessions {
		if _, ok := connections[connectionID]; !ok {
			continue
		}
		delete(connections, connectionID)
		if len(connections) == 0 {
			delete(r.sessions, sessionID)
		}
		affected = append(affected, sessionID)
	}
	sort.Strings(affected)
	return affected, nil
}

func (r *Roster) Roster(_ context.Context, sessionID string) ([]entities.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connections := r.sessions[sessionID]
	roster := make([]entities.Participant, 0, len(connections))
	for _, participant := range connections {
		roster = append(roster, participant)
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].ConnectionID < roster[j].ConnectionID })
	return roster, nil
}

func (r *Roster) ResetReady(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for connectionID, participant := range r.sessions[sessionID] {
		participant.Ready = false
		r.sessions[sessionID][connectionID] = participant
	}
	return nil
}
