package models

import "time"

// QueueEntry is a user waiting to be promoted into a session's roster.
// Rows are hard-deleted on leave/promote so the (session, user) uniqueness
// constraint allows re-joining. The row id doubles as the insertion order for
// display; promotion order is always a creator decision, never positional.
type QueueEntry struct {
	ID        uint `gorm:"primarykey"`
	SessionID uint `gorm:"not null;uniqueIndex:idx_queue_session_user"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_queue_session_user"`

	// CandidateAccountIDs are the accounts the user offered, in the order
	// they declared them. They are references, not owned copies: eligibility
	// is re-checked against live account data at promotion time.
	CandidateAccountIDs []uint `gorm:"serializer:json"`

	// Roles the user is willing to play.
	Roles []string `gorm:"serializer:json"`

	IsStreaming bool `gorm:"not null;default:false"`
	Note        string

	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}
