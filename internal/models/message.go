package models

import "time"

type Message struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	RoomKind    string       `gorm:"size:16;not null;index:idx_messages_room,priority:1" json:"room_kind"`
	RoomID      uint         `gorm:"not null;index:idx_messages_room,priority:2" json:"room_id"`
	AuthorID    uint         `gorm:"not null;index" json:"author_id"`
	AuthorName  string       `gorm:"size:100" json:"author_name"`
	Content     string       `gorm:"type:text" json:"content"`
	Attachments []Attachment `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"attachments"`
	Reactions   []Reaction   `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"reactions"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
}

type Attachment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	MessageID uint   `gorm:"not null;index" json:"message_id"`
	URL       string `gorm:"size:512;not null" json:"url"`
	Name      string `gorm:"size:255" json:"name"`
	Kind      string `gorm:"size:32" json:"kind"`
	MimeType  string `gorm:"size:100" json:"mime_type"`
}

// Reaction is unique per (message, user, emoji); toggling creates or deletes
// the row, never updates it.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;uniqueIndex:idx_reaction_once,priority:1" json:"message_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reaction_once,priority:2" json:"user_id"`
	Emoji     string    `gorm:"size:32;not null;uniqueIndex:idx_reaction_once,priority:3" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}
