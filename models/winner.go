// models/winner.go
package models

import "time"

// Only one placement is supported — every winner gets the same label.
const (
	WinnerPosition = "1st Place"
	WinnerBadge    = "🥇"
)

// Winner is the public winner-advertisement record. It is created in
// the same transaction that patches the contest's winner fields, so the
// two never drift apart.
type Winner struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	ContestID   string    `json:"contest_id" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name"`
	AvatarURL   string    `json:"avatar"`
	Prize       float64   `json:"prize"`
	Email       string    `json:"email" gorm:"index"`
	ContestName string    `json:"contest_name"`
	Position    string    `json:"position" gorm:"default:'1st Place'"`
	Badge       string    `json:"badge" gorm:"size:10"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}
