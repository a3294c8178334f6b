package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"robeurope-backend/internal/models"
	"robeurope-backend/internal/store"
)

const reminderDedupTTL = 48 * time.Hour

// ReminderService periodically notifies registered users of competitions
// starting within the lead window. A dedup key per (competition, user) pair
// guarantees at most one reminder per pair per window even when sweeps
// overlap.
type ReminderService struct {
	competitions  store.CompetitionStore
	notifications store.NotificationStore
	dedup         store.DedupStore
	notify        *NotifyService
	lead          time.Duration
}

func NewReminderService(competitions store.CompetitionStore, notifications store.NotificationStore, dedup store.DedupStore, notify *NotifyService, lead time.Duration) *ReminderService {
	return &ReminderService{
		competitions:  competitions,
		notifications: notifications,
		dedup:         dedup,
		notify:        notify,
		lead:          lead,
	}
}

// Run sweeps on the given interval until ctx is cancelled.
func (s *ReminderService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				log.Printf("reminder: sweep failed: %v", err)
			}
		}
	}
}

func (s *ReminderService) Sweep(ctx context.Context) error {
	comps, err := s.competitions.UpcomingCompetitions(ctx, s.lead)
	if err != nil {
		return fmt.Errorf("list upcoming competitions: %w", err)
	}

	for _, comp := range comps {
		userIDs, err := s.competitions.RegisteredUserIDs(ctx, comp.ID)
		if err != nil {
			log.Printf("reminder: list registrations for competition %d: %v", comp.ID, err)
			continue
		}

		for _, userID := range userIDs {
			key := fmt.Sprintf("reminder:%d:%d", comp.ID, userID)
			claimed, err := s.dedup.ClaimKey(ctx, key, reminderDedupTTL)
			if err != nil {
				log.Printf("reminder: claim %s: %v", key, err)
				continue
			}
			if !claimed {
				continue
			}

			n := &models.Notification{
				TargetUserID: userID,
				Title:        fmt.Sprintf("%s starts soon", comp.Title),
				Message:      fmt.Sprintf("%s starts at %s", comp.Title, comp.StartsAt.Format(time.RFC1123)),
				Kind:         models.NotificationKindReminder,
			}
			if err := s.notifications.CreateNotification(ctx, n); err != nil {
				log.Printf("reminder: persist notification for user %d: %v", userID, err)
				continue
			}

			s.notify.EmitToUser(userID, "notification", NotificationPayload{
				Title:   n.Title,
				Message: n.Message,
				Kind:    n.Kind,
			})
		}
	}
	return nil
}
