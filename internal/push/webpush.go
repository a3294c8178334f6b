// Package push sends out-of-band web push notifications. It is a best-effort
// channel: callers log failures and never surface them to the realtime path.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"robeurope-backend/internal/models"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrSubscriptionGone reports that the push service no longer knows the
// endpoint; the subscription should be pruned.
var ErrSubscriptionGone = errors.New("push subscription gone")

type Delivery struct {
	vapidPublicKey  string
	vapidPrivateKey string
	subscriber      string
}

func NewDelivery(vapidPublicKey, vapidPrivateKey, subscriber string) *Delivery {
	return &Delivery{
		vapidPublicKey:  vapidPublicKey,
		vapidPrivateKey: vapidPrivateKey,
		subscriber:      subscriber,
	}
}

func (d *Delivery) Send(ctx context.Context, sub models.PushSubscription, title, body string) error {
	payload, err := json.Marshal(map[string]string{
		"title": title,
		"body":  body,
	})
	if err != nil {
		return err
	}

	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, target, &webpush.Options{
		VAPIDPublicKey:  d.vapidPublicKey,
		VAPIDPrivateKey: d.vapidPrivateKey,
		Subscriber:      d.subscriber,
		TTL:             3600,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		return ErrSubscriptionGone
	}
	if resp.StatusCode >= 400 {
		return errors.New(resp.Status)
	}
	return nil
}
