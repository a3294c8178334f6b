package models

import "time"

// Team, TeamMember, Competition and Registration are owned by the CRUD side of
// the platform; the realtime engine only reads them for membership checks and
// reminder sweeps.

type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type TeamMember struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	TeamID uint `gorm:"not null;uniqueIndex:idx_team_member,priority:1" json:"team_id"`
	UserID uint `gorm:"not null;uniqueIndex:idx_team_member,priority:2" json:"user_id"`
}

type Competition struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	StartsAt  time.Time `gorm:"index" json:"starts_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Registration struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	CompetitionID uint `gorm:"not null;uniqueIndex:idx_registration,priority:1" json:"competition_id"`
	UserID        uint `gorm:"not null;uniqueIndex:idx_registration,priority:2" json:"user_id"`
}
