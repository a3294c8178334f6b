package ws

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub is the connection gateway. It owns every live connection and its
// ephemeral state, delegates room bookkeeping to the Registry, and notifies
// the presence aggregator after every membership change.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]*Connection
	registry Registry
	presence *Presence
}

func NewHub(registry Registry) *Hub {
	if registry == nil {
		registry = NewMemoryRegistry()
	}
	h := &Hub{
		conns:    make(map[string]*Connection),
		registry: registry,
	}
	h.presence = &Presence{hub: h}
	return h
}

func (h *Hub) Presence() *Presence { return h.presence }

func (h *Hub) Register(sock Conn) *Connection {
	conn := &Connection{
		ID:    uuid.NewString(),
		sock:  sock,
		rooms: make(map[RoomKey]struct{}),
	}

	h.mu.Lock()
	h.conns[conn.ID] = conn
	total := len(h.conns)
	h.mu.Unlock()

	log.Printf("ws: client %s connected (total: %d)", conn.ID, total)
	return conn
}

// Unregister leaves every room the connection had joined before discarding
// it, then recomputes presence for each of those rooms. Skipping a room here
// would leak a stale presence entry until the room is otherwise touched.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	conn, ok := h.conns[connID]
	if !ok {
		h.mu.Unlock()
		return
	}
	rooms := make([]RoomKey, 0, len(conn.rooms))
	for room := range conn.rooms {
		rooms = append(rooms, room)
		h.registry.RemoveMember(room, connID)
	}
	delete(h.conns, connID)
	h.mu.Unlock()

	conn.sock.Close()
	for _, room := range rooms {
		h.presence.Recompute(room)
	}
	log.Printf("ws: client %s disconnected", connID)
}

func (h *Hub) SetIdentity(connID string, identity Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.conns[connID]; ok {
		conn.identity = &identity
	}
}

func (h *Hub) Identity(connID string) (Identity, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if conn, ok := h.conns[connID]; ok && conn.identity != nil {
		return *conn.identity, true
	}
	return Identity{}, false
}

func (h *Hub) SetTyping(connID string, typing bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.conns[connID]; ok {
		conn.isTyping = typing
	}
}

func (h *Hub) SetFocusedFile(connID, fileID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.conns[connID]; ok {
		conn.focusedFileID = fileID
	}
}

func (h *Hub) SetCodeSessionRoom(connID string, room RoomKey) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.conns[connID]; ok {
		conn.codeSessionRoom = &room
	}
}

func (h *Hub) CodeSessionRoom(connID string) (RoomKey, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if conn, ok := h.conns[connID]; ok && conn.codeSessionRoom != nil {
		return *conn.codeSessionRoom, true
	}
	return RoomKey{}, false
}

func (h *Hub) JoinRoom(connID string, room RoomKey) {
	h.mu.Lock()
	conn, ok := h.conns[connID]
	if !ok {
		h.mu.Unlock()
		return
	}
	conn.rooms[room] = struct{}{}
	h.registry.AddMember(room, connID)
	h.mu.Unlock()

	h.presence.Recompute(room)
}

func (h *Hub) LeaveRoom(connID string, room RoomKey) {
	h.mu.Lock()
	conn, ok := h.conns[connID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(conn.rooms, room)
	h.registry.RemoveMember(room, connID)
	h.mu.Unlock()

	h.presence.Recompute(room)
}

// Broadcast sends msg to every connection in the room except the excluded
// ids. A write failure is logged and left for the connection's read loop to
// clean up.
func (h *Hub) Broadcast(room RoomKey, msg WSMessage, exclude ...string) {
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	for _, conn := range h.roomConnections(room) {
		if _, ok := skip[conn.ID]; ok {
			continue
		}
		if err := conn.send(msg); err != nil {
			log.Printf("ws: write error to %s: %v", conn.ID, err)
		}
	}
}

func (h *Hub) SendTo(connID string, msg WSMessage) error {
	h.mu.RLock()
	conn, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	return conn.send(msg)
}

// EmitToUser delivers msg to every connection whose identity matches userID,
// regardless of room membership. Returns the number of connections reached.
func (h *Hub) EmitToUser(userID uint, msg WSMessage) int {
	h.mu.RLock()
	var targets []*Connection
	for _, conn := range h.conns {
		if conn.identity != nil && conn.identity.UserID == userID {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.send(msg); err != nil {
			log.Printf("ws: write error to %s: %v", conn.ID, err)
		}
	}
	return len(targets)
}

func (h *Hub) roomConnections(room RoomKey) []*Connection {
	memberIDs := h.registry.ListMembers(room)

	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := make([]*Connection, 0, len(memberIDs))
	for _, id := range memberIDs {
		if conn, ok := h.conns[id]; ok {
			conns = append(conns, conn)
		}
	}
	return conns
}
