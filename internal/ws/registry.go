package ws

import "sync"

// Registry tracks which connection ids are subscribed to which room. It is
// pure bookkeeping: no persistence, rebuilt from scratch on process start.
type Registry interface {
	AddMember(room RoomKey, connID string)
	RemoveMember(room RoomKey, connID string)
	ListMembers(room RoomKey) []string
}

type memoryRegistry struct {
	mu    sync.RWMutex
	rooms map[RoomKey]map[string]struct{}
}

func NewMemoryRegistry() Registry {
	return &memoryRegistry{rooms: make(map[RoomKey]map[string]struct{})}
}

func (r *memoryRegistry) AddMember(room RoomKey, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[room] == nil {
		r.rooms[room] = make(map[string]struct{})
	}
	r.rooms[room][connID] = struct{}{}
}

func (r *memoryRegistry) RemoveMember(room RoomKey, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members, ok := r.rooms[room]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}

func (r *memoryRegistry) ListMembers(room RoomKey) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[room]
	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	return ids
}
