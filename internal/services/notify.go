package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"robeurope-backend/internal/models"
	"robeurope-backend/internal/push"
	"robeurope-backend/internal/store"
	"robeurope-backend/internal/ws"
)

// PushDelivery is the out-of-band push collaborator. Satisfied by
// *push.Delivery.
type PushDelivery interface {
	Send(ctx context.Context, sub models.PushSubscription, title, body string) error
}

// NotificationPayload is what EmitToUser delivers over the realtime channel
// and, for notification-kind events, mirrors into a push message.
type NotificationPayload struct {
	Title    string                 `json:"title"`
	Message  string                 `json:"message"`
	Kind     string                 `json:"kind"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NotifyService delivers targeted events to a single user's open connections
// and bridges notification-kind events to web push.
type NotifyService struct {
	hub      *ws.Hub
	delivery PushDelivery
	subs     store.PushSubscriptionStore
}

func NewNotifyService(hub *ws.Hub, delivery PushDelivery, subs store.PushSubscriptionStore) *NotifyService {
	return &NotifyService{hub: hub, delivery: delivery, subs: subs}
}

// EmitToUser sends payload to every currently-open connection of userID. For
// eventKind "notification" it additionally hands a {title, body} push to the
// delivery collaborator in a detached goroutine: push failure never affects
// or delays the realtime path.
func (s *NotifyService) EmitToUser(userID uint, eventKind string, payload NotificationPayload) int {
	delivered := s.hub.EmitToUser(userID, ws.WSMessage{
		Type: fmt.Sprintf("notification:%d", userID),
		Data: payload,
	})

	if eventKind == "notification" && s.delivery != nil {
		go s.deliverPush(userID, payload.Title, payload.Message)
	}
	return delivered
}

func (s *NotifyService) deliverPush(userID uint, title, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	subs, err := s.subs.Subscriptions(ctx, userID)
	if err != nil {
		log.Printf("push: load subscriptions for user %d: %v", userID, err)
		return
	}

	for _, sub := range subs {
		err := s.delivery.Send(ctx, sub, title, body)
		if err == nil {
			continue
		}
		if errors.Is(err, push.ErrSubscriptionGone) {
			if err := s.subs.RemoveSubscription(ctx, userID, sub.Endpoint); err != nil {
				log.Printf("push: prune subscription for user %d: %v", userID, err)
			}
			continue
		}
		log.Printf("push: deliver to user %d: %v", userID, err)
	}
}
