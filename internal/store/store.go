// Package store holds the persistence collaborators the realtime engine
// consumes: gorm/postgres for durable chat and notification data, redis for
// the shared ephemeral documents (code sessions, dedup keys, push
// subscriptions).
package store

import (
	"context"
	"time"

	"robeurope-backend/internal/models"
	"robeurope-backend/internal/ws"
)

type MessageStore interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessage(ctx context.Context, id uint) (*models.Message, error)
	// ListMessages returns a reverse-chronological page.
	ListMessages(ctx context.Context, room ws.RoomKey, limit, offset int) ([]models.Message, error)
}

type ReactionStore interface {
	// ToggleReaction creates the reaction if absent and deletes it otherwise.
	// A create racing into the unique constraint reports added=true with no
	// error: the caller already reacted.
	ToggleReaction(ctx context.Context, messageID, userID uint, emoji string) (added bool, err error)
}

type MembershipAuthorizer interface {
	IsMember(ctx context.Context, room ws.RoomKey, userID uint) (bool, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

type CompetitionStore interface {
	UpcomingCompetitions(ctx context.Context, within time.Duration) ([]models.Competition, error)
	RegisteredUserIDs(ctx context.Context, competitionID uint) ([]uint, error)
}

// SessionStore backs the per-team collaborative code workspace. The document
// is read and written whole; there is no compare-and-swap, so concurrent
// writers race as last-write-wins.
type SessionStore interface {
	// GetSession returns nil, nil when no session exists for the team.
	GetSession(ctx context.Context, teamID uint) ([]models.SessionFile, error)
	PutSession(ctx context.Context, teamID uint, files []models.SessionFile) error
	// InitSession stores defaults only if no session exists yet, then returns
	// the current document. The default set is created exactly once per team.
	InitSession(ctx context.Context, teamID uint, defaults []models.SessionFile) ([]models.SessionFile, error)
}

type DedupStore interface {
	// ClaimKey sets key with ttl if absent. Returns false when the key was
	// already claimed within its window.
	ClaimKey(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type PushSubscriptionStore interface {
	Subscriptions(ctx context.Context, userID uint) ([]models.PushSubscription, error)
	AddSubscription(ctx context.Context, userID uint, sub models.PushSubscription) error
	RemoveSubscription(ctx context.Context, userID uint, endpoint string) error
}
