// models/badge.go
package models

import "time"

// BadgeType: static config (seeded into DB on startup)
type BadgeType struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"` // e.g., "FIRST_WIN"
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	IconURL     string    `gorm:"type:text" json:"icon_url"`
	Rarity      string    `gorm:"type:varchar(16);default:'common'" json:"rarity"` // common, rare, epic
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge: awarded instance
type UserBadge struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserEmail   string    `gorm:"index;not null" json:"user_email"`
	BadgeTypeID string    `gorm:"index;not null" json:"badge_type_id"`
	AwardedAt   time.Time `gorm:"autoCreateTime" json:"awarded_at"`
}

// Milestone badges driven by the profile counters.
var BadgeTriggers = []BadgeType{
	{
		Code:        "FIRST_ENTRY",
		Name:        "In The Arena",
		Description: "Registered for your first contest",
		Rarity:      "common",
	},
	{
		Code:        "FIRST_WIN",
		Name:        "First Victory",
		Description: "Won your first contest",
		Rarity:      "rare",
	},
	{
		Code:        "FIVE_WINS",
		Name:        "Contest Champion",
		Description: "Won five contests",
		Rarity:      "epic",
	},
}
