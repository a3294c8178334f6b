package handlers

import (
	"context"
	"log"
	"net/http"

	"robeurope-backend/internal/services"
	"robeurope-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub    *ws.Hub
	collab *services.CollabService
}

func NewWSHandler(hub *ws.Hub, collab *services.CollabService) *WSHandler {
	return &WSHandler{hub: hub, collab: collab}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// inboundEvent is the union of every client-to-server frame. Unused fields
// stay zero for any given type.
type inboundEvent struct {
	Type     string       `json:"type"`
	TeamID   uint         `json:"team_id"`
	User     *ws.Identity `json:"user,omitempty"`
	FileID   string       `json:"file_id"`
	Content  string       `json:"content"`
	Name     string       `json:"name"`
	Language string       `json:"language"`
	FileType string       `json:"file_type"`
}

// HandleWebSocket godoc
// @Summary      WebSocket connection for realtime rooms
// @Description  Connect via WebSocket for chat presence, typing and collaborative code sessions
// @Tags         websocket
// @Router       /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	conn := h.hub.Register(sock)
	defer h.hub.Unregister(conn.ID)

	for {
		var evt inboundEvent
		if err := sock.ReadJSON(&evt); err != nil {
			break
		}
		h.dispatch(c.Request.Context(), conn.ID, evt)
	}
}

func (h *WSHandler) dispatch(ctx context.Context, connID string, evt inboundEvent) {
	switch evt.Type {
	case "join_team":
		if evt.User != nil {
			h.hub.SetIdentity(connID, *evt.User)
		}
		h.hub.JoinRoom(connID, ws.TeamRoom(evt.TeamID))

	case "typing":
		h.hub.SetTyping(connID, true)
		h.hub.Broadcast(ws.TeamRoom(evt.TeamID), ws.WSMessage{Type: "user_typing", Data: evt.User}, connID)

	case "stop_typing":
		h.hub.SetTyping(connID, false)
		h.hub.Broadcast(ws.TeamRoom(evt.TeamID), ws.WSMessage{Type: "user_stop_typing", Data: evt.User}, connID)

	case "join_code_session":
		identity, ok := h.hub.Identity(connID)
		if evt.User != nil {
			identity = *evt.User
			ok = true
		}
		if !ok {
			return
		}
		if err := h.collab.JoinSession(ctx, evt.TeamID, connID, identity); err != nil {
			log.Printf("ws: join code session %d: %v", evt.TeamID, err)
		}

	case "file_update":
		if err := h.collab.UpdateFile(ctx, evt.TeamID, connID, evt.FileID, evt.Content); err != nil {
			log.Printf("ws: file update %s: %v", evt.FileID, err)
		}

	case "create_file":
		if err := h.collab.CreateFile(ctx, evt.TeamID, evt.Name, evt.Language, evt.FileType); err != nil {
			log.Printf("ws: create file %q: %v", evt.Name, err)
		}

	case "delete_file":
		if err := h.collab.DeleteFile(ctx, evt.TeamID, evt.FileID); err != nil {
			log.Printf("ws: delete file %s: %v", evt.FileID, err)
		}

	case "focus_file":
		h.collab.FocusFile(connID, evt.FileID)
	}
}
