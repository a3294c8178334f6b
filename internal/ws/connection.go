package ws

import "sync"

// Conn is the transport side of a connection. *websocket.Conn satisfies it;
// tests use an in-memory recorder.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Connection is the gateway's per-socket record. All fields except the socket
// itself are guarded by the hub mutex; writes to the socket are serialized by
// writeMu so concurrent broadcasts do not interleave frames.
type Connection struct {
	ID   string
	sock Conn

	writeMu sync.Mutex

	identity        *Identity
	rooms           map[RoomKey]struct{}
	isTyping        bool
	focusedFileID   string
	codeSessionRoom *RoomKey
}

func (c *Connection) send(msg WSMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.sock.WriteJSON(msg)
}
