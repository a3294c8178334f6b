package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"robeurope-backend/internal/models"
	"robeurope-backend/internal/services"
	"robeurope-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type AttachmentRequest struct {
	URL      string `json:"url" binding:"required"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	MimeType string `json:"mime_type"`
}

type SendMessageRequest struct {
	Content     string              `json:"content"`
	Attachments []AttachmentRequest `json:"attachments"`
}

type ToggleReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

func roomFromPath(c *gin.Context) (ws.RoomKey, bool) {
	kind := ws.RoomKind(c.Param("kind"))
	if kind != ws.KindTeam && kind != ws.KindCompetition {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room kind"})
		return ws.RoomKey{}, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return ws.RoomKey{}, false
	}
	return ws.RoomKey{Kind: kind, EntityID: uint(id)}, true
}

func identityFromContext(c *gin.Context) ws.Identity {
	return ws.Identity{
		UserID:      c.GetUint("user_id"),
		DisplayName: c.GetString("display_name"),
	}
}

// SendMessage godoc
// @Summary      Send a chat message to a team or competition room
// @Tags         chat
// @Security     BearerAuth
// @Router       /api/v1/rooms/{kind}/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	room, ok := roomFromPath(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	attachments := make([]models.Attachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		attachments = append(attachments, models.Attachment{
			URL:      a.URL,
			Name:     a.Name,
			Kind:     a.Kind,
			MimeType: a.MimeType,
		})
	}

	msg, err := h.chat.SendMessage(c.Request.Context(), room, identityFromContext(c), req.Content, attachments)
	if err != nil {
		writeChatError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// GetMessages godoc
// @Summary      Fetch a page of room history, oldest first
// @Tags         chat
// @Security     BearerAuth
// @Router       /api/v1/rooms/{kind}/{id}/messages [get]
func (h *ChatHandler) GetMessages(c *gin.Context) {
	room, ok := roomFromPath(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	msgs, err := h.chat.GetMessages(c.Request.Context(), room, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// ToggleReaction godoc
// @Summary      Toggle an emoji reaction on a message
// @Tags         chat
// @Security     BearerAuth
// @Router       /api/v1/messages/{id}/reactions [post]
func (h *ChatHandler) ToggleReaction(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid message id"})
		return
	}

	var req ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	added, err := h.chat.ToggleReaction(c.Request.Context(), uint(messageID), c.GetUint("user_id"), req.Emoji)
	if err != nil {
		writeChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
