package handlers

import (
	"net/http"

	"robeurope-backend/internal/models"
	"robeurope-backend/internal/store"

	"github.com/gin-gonic/gin"
)

type NotifyHandler struct {
	subs store.PushSubscriptionStore
}

func NewNotifyHandler(subs store.PushSubscriptionStore) *NotifyHandler {
	return &NotifyHandler{subs: subs}
}

// Subscribe godoc
// @Summary      Register a web push subscription for the authenticated user
// @Tags         notifications
// @Security     BearerAuth
// @Router       /api/v1/push/subscribe [post]
func (h *NotifyHandler) Subscribe(c *gin.Context) {
	var sub models.PushSubscription
	if err := c.ShouldBindJSON(&sub); err != nil || sub.Endpoint == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid subscription"})
		return
	}

	if err := h.subs.AddSubscription(c.Request.Context(), c.GetUint("user_id"), sub); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "subscribed"})
}
