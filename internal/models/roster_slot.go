package models

import "time"

// RosterSlot is a confirmed spot on a session's team: one user, one account,
// one assigned role. Rows are hard-deleted on demotion so the (session, user)
// uniqueness constraint allows a later re-promotion.
type RosterSlot struct {
	ID        uint   `gorm:"primarykey"`
	SessionID uint   `gorm:"not null;uniqueIndex:idx_roster_session_user"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_roster_session_user"`
	AccountID uint   `gorm:"not null"`
	Role      string `gorm:"size:50;not null;index"`

	IsStreaming bool `gorm:"not null;default:false"`

	// AssignedByID records which creator performed the promotion.
	AssignedByID uint      `gorm:"not null"`
	AssignedAt   time.Time `gorm:"not null"`

	User    User    `gorm:"foreignKey:UserID"`
	Account Account `gorm:"foreignKey:AccountID"`
}
