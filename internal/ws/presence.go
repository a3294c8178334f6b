package ws

import "log"

// Presence recomputes the "who is here" view of a room from the connections
// currently subscribed to it. There is no authority beyond open connections:
// the snapshot is best effort and process-local.
type Presence struct {
	hub *Hub
}

// SessionUser is one entry of a code-room presence snapshot.
type SessionUser struct {
	Identity
	FocusedFileID string `json:"focused_file_id"`
}

// Recompute builds the deduplicated presence list for the room and broadcasts
// it to every connection in the room as a full-replacement snapshot.
// Connections without an identity are skipped; the first connection seen for
// a user wins. O(room size) on every membership change, by accepted trade-off.
func (p *Presence) Recompute(room RoomKey) {
	conns := p.hub.roomConnections(room)

	seen := make(map[uint]struct{}, len(conns))

	var msg WSMessage
	switch room.Kind {
	case KindCode:
		users := make([]SessionUser, 0, len(conns))
		p.hub.mu.RLock()
		for _, conn := range conns {
			if conn.identity == nil {
				continue
			}
			if _, dup := seen[conn.identity.UserID]; dup {
				continue
			}
			seen[conn.identity.UserID] = struct{}{}
			users = append(users, SessionUser{
				Identity:      *conn.identity,
				FocusedFileID: conn.focusedFileID,
			})
		}
		p.hub.mu.RUnlock()
		msg = WSMessage{Type: "session_users", Data: users}
	default:
		users := make([]Identity, 0, len(conns))
		p.hub.mu.RLock()
		for _, conn := range conns {
			if conn.identity == nil {
				continue
			}
			if _, dup := seen[conn.identity.UserID]; dup {
				continue
			}
			seen[conn.identity.UserID] = struct{}{}
			users = append(users, *conn.identity)
		}
		p.hub.mu.RUnlock()
		msg = WSMessage{Type: "team_users_update", Data: users}
	}

	for _, conn := range conns {
		if err := conn.send(msg); err != nil {
			log.Printf("ws: presence write error to %s: %v", conn.ID, err)
		}
	}
}
