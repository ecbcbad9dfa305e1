package models

import (
	"time"

	"gorm.io/gorm"
)

type SessionStatus string

const (
	StatusOpen      SessionStatus = "open"
	StatusFull      SessionStatus = "full"
	StatusClosed    SessionStatus = "closed"
	StatusCancelled SessionStatus = "cancelled"
)

// NoRankDiffLimit disables the max-rank-difference filter on a session.
const NoRankDiffLimit = -1

// Session represents one scheduled match instance with a lifecycle status.
type Session struct {
	gorm.Model
	CreatorID   uint      `gorm:"not null;index"`
	GameModeID  string    `gorm:"size:50;not null"`
	ScheduledAt time.Time `gorm:"not null"`
	Timezone    string    `gorm:"size:64;not null"`
	Description string

	// MaxRankDiff is the widest allowed spread of rank values on the roster,
	// or NoRankDiffLimit for no filter.
	MaxRankDiff int `gorm:"not null;default:-1"`

	Status SessionStatus `gorm:"size:20;not null;default:'open';index"`

	// MessageRef is an opaque handle owned by the presentation layer
	// (e.g. the id of the message it renders this session into).
	MessageRef string `gorm:"size:255"`

	Creator      User         `gorm:"foreignKey:CreatorID"`
	QueueEntries []QueueEntry `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	RosterSlots  []RosterSlot `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}
