// models/contest.go
package models

import (
	"time"

	"gorm.io/gorm"

	"contest-hub-service/countdown"
)

// ContestStatus is the moderation state of a contest.
type ContestStatus string

const (
	ContestStatusPending  ContestStatus = "pending"
	ContestStatusApproved ContestStatus = "approved"
	ContestStatusRejected ContestStatus = "rejected"
)

// ValidContestStatus reports whether s is one of the three moderation
// states. Transitions between them are admin-triggered and retryable.
func ValidContestStatus(s ContestStatus) bool {
	switch s {
	case ContestStatusPending, ContestStatusApproved, ContestStatusRejected:
		return true
	}
	return false
}

// Contest is a hosted competition with a deadline, prize and moderation status.
type Contest struct {
	ID              string        `json:"id" gorm:"primaryKey;type:uuid"`
	Slug            string        `json:"slug" gorm:"uniqueIndex"`
	Name            string        `json:"name" gorm:"not null"`
	Title           string        `json:"title"`
	Description     string        `json:"description" gorm:"type:text"`
	TaskInstruction string        `json:"task_instruction" gorm:"type:text"`
	Category        string        `json:"category" gorm:"index"`
	Price           float64       `json:"price" gorm:"default:0"` // registration fee
	PrizeMoney      float64       `json:"prize_money" gorm:"default:0"`
	BannerImageURL  string        `json:"banner_image_url"`
	Deadline        time.Time     `json:"deadline" gorm:"not null;index"`
	Status          ContestStatus `json:"status" gorm:"type:varchar(16);default:'pending';index"`

	// Creator snapshot, denormalized from the user record at creation time
	CreatorName     string `json:"creator_name"`
	CreatorEmail    string `json:"creator_email" gorm:"index;not null"`
	CreatorImageURL string `json:"creator_image_url"`

	// Winner snapshot — all empty until a winner is declared, then set
	// together exactly once
	WinnerName     string `json:"winner_name,omitempty"`
	WinnerEmail    string `json:"winner_email,omitempty" gorm:"index"`
	WinnerImageURL string `json:"winner_image_url,omitempty"`

	ParticipantCount int64 `json:"participant_count" gorm:"default:0"`
	SubmissionCount  int64 `json:"submission_count" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// HasWinner reports whether a winner has already been declared.
func (c *Contest) HasWinner() bool {
	return c.WinnerEmail != ""
}

// Ended re-derives the deadline state from the stored deadline, never
// from client-supplied state.
func (c *Contest) Ended(now time.Time) bool {
	return countdown.Remaining(c.Deadline, now).Ended
}

// AcceptsRegistration gates the register-and-pay action: only approved
// contests with a live deadline take new entries.
func (c *Contest) AcceptsRegistration(now time.Time) bool {
	return c.Status == ContestStatusApproved && !c.Ended(now)
}

// AcceptsSubmission gates the submit-task action. Registration payment
// and one-shot submission are checked separately against their tables.
func (c *Contest) AcceptsSubmission(now time.Time) bool {
	return c.Status == ContestStatusApproved && !c.Ended(now)
}

// CanDeclareWinner is the declaration guard: the deadline must have
// passed and no winner may exist yet.
func (c *Contest) CanDeclareWinner(now time.Time) bool {
	return c.Ended(now) && !c.HasWinner()
}
