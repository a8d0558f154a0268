// models/submission.go
package models

import "time"

// Submission is a user's delivered work for a contest they paid into.
// One per (contest, submitter) — the unique index backs the one-shot rule.
type Submission struct {
	ID        string `json:"id" gorm:"primaryKey;type:uuid"`
	ContestID string `json:"contest_id" gorm:"not null;index:idx_sub_contest_user,unique"`

	// Denormalized so the creator dashboard lists without joins
	ContestName  string `json:"contest_name"`
	CreatorEmail string `json:"creator_email" gorm:"index;not null"`

	SubmissionLink string `json:"submission_link" gorm:"not null"`
	Note           string `json:"note,omitempty" gorm:"type:text"`

	// Submitter identity snapshot taken at submit time
	SubmitterName     string `json:"submitter_name"`
	SubmitterEmail    string `json:"submitter_email" gorm:"not null;index:idx_sub_contest_user,unique"`
	SubmitterImageURL string `json:"submitter_image_url"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime"`
}
