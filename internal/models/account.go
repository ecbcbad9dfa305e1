package models

import (
	"time"

	"gorm.io/gorm"
)

// Account represents a named in-game identity owned by a user.
// A user can have several accounts; at most one of them is primary.
type Account struct {
	gorm.Model
	UserID    uint   `gorm:"not null;uniqueIndex:idx_account_owner_name"`
	Name      string `gorm:"size:255;not null;uniqueIndex:idx_account_owner_name"`
	IsPrimary bool   `gorm:"not null;default:false"`

	Ratings []RoleRating `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

// RoleRating is an account's rank for a single role. Roles without a row
// are unranked for that role. Rows are hard-deleted when a rank is cleared.
type RoleRating struct {
	ID        uint   `gorm:"primarykey"`
	AccountID uint   `gorm:"not null;uniqueIndex:idx_rating_account_role"`
	Role      string `gorm:"size:50;not null;uniqueIndex:idx_rating_account_role"`
	Rank      string `gorm:"size:50;not null"`
	Division  int    `gorm:"not null"`

	UpdatedAt time.Time
}

// RatingFor returns the account's rating for a role, or nil if unranked.
func (a *Account) RatingFor(role string) *RoleRating {
	for i := range a.Ratings {
		if a.Ratings[i].Role == role {
			return &a.Ratings[i]
		}
	}
	return nil
}
