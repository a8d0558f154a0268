// models/user.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is a closed set — every switch over it handles all three
// variants explicitly instead of comparing loose strings.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCreator Role = "creator"
	RoleUser    Role = "user"
)

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCreator:
		return RoleCreator, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User is the platform profile. Identity itself lives in the external
// auth provider; this row is upserted on login and carries role and
// aggregate counters.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid"`
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	ImageURL string `json:"image_url"`
	Role     Role   `json:"role" gorm:"type:varchar(16);default:'user'"`

	// Aggregates maintained by payment confirmation and winner declaration
	TotalWon          int64 `json:"total_won" gorm:"default:0"`
	TotalParticipated int64 `json:"total_participated" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
