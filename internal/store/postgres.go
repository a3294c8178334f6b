package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"robeurope-backend/internal/models"
	"robeurope-backend/internal/ws"

	"gorm.io/gorm"
)

// PostgresStore implements the durable collaborators on gorm. Requires the
// connection to be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := s.db.WithContext(ctx).
		Preload("Attachments").Preload("Reactions").
		First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, room ws.RoomKey, limit, offset int) ([]models.Message, error) {
	var msgs []models.Message
	if err := s.db.WithContext(ctx).
		Where("room_kind = ? AND room_id = ?", string(room.Kind), room.EntityID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Preload("Attachments").Preload("Reactions").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *PostgresStore) ToggleReaction(ctx context.Context, messageID, userID uint, emoji string) (bool, error) {
	db := s.db.WithContext(ctx)

	var existing models.Reaction
	err := db.Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		First(&existing).Error
	if err == nil {
		if err := db.Delete(&existing).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	reaction := models.Reaction{MessageID: messageID, UserID: userID, Emoji: emoji}
	if err := db.Create(&reaction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race to another toggle-on: already reacted
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (s *PostgresStore) IsMember(ctx context.Context, room ws.RoomKey, userID uint) (bool, error) {
	var count int64
	db := s.db.WithContext(ctx)

	switch room.Kind {
	case ws.KindTeam, ws.KindCode:
		err := db.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", room.EntityID, userID).
			Count(&count).Error
		if err != nil {
			return false, err
		}
	case ws.KindCompetition:
		err := db.Model(&models.Registration{}).
			Where("competition_id = ? AND user_id = ?", room.EntityID, userID).
			Count(&count).Error
		if err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown room kind %q", room.Kind)
	}
	return count > 0, nil
}

func (s *PostgresStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpcomingCompetitions(ctx context.Context, within time.Duration) ([]models.Competition, error) {
	now := time.Now()
	var comps []models.Competition
	if err := s.db.WithContext(ctx).
		Where("starts_at > ? AND starts_at <= ?", now, now.Add(within)).
		Order("starts_at ASC").
		Find(&comps).Error; err != nil {
		return nil, err
	}
	return comps, nil
}

func (s *PostgresStore) RegisteredUserIDs(ctx context.Context, competitionID uint) ([]uint, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("competition_id = ?", competitionID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
