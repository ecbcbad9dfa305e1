package models

import "gorm.io/gorm"

// User represents a user in the system.
type User struct {
	gorm.Model
	Nickname     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	// Timezone is used to normalize scheduled times at session creation.
	Timezone string `gorm:"size:64;not null;default:'America/New_York'"`

	// PreferredRoles pre-fills the join wizard's role selection.
	PreferredRoles []string `gorm:"serializer:json"`

	Accounts []Account `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
