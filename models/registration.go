// models/registration.go
package models

import "time"

// PaymentStatus of a registration. Rows start unpaid when a checkout
// session is created and flip to paid exactly once on confirmation.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// Registration links a user to a contest they are entering.
type Registration struct {
	ID        string `json:"id" gorm:"primaryKey;type:uuid"`
	ContestID string `json:"contest_id" gorm:"not null;index:idx_reg_contest_user,unique"`
	UserEmail string `json:"user_email" gorm:"not null;index:idx_reg_contest_user,unique"`

	// Contest snapshot, denormalized for the participant dashboard
	ContestName  string    `json:"contest_name"`
	ContestTitle string    `json:"contest_title"`
	Deadline     time.Time `json:"deadline"`
	Price        float64   `json:"price"`

	// Checkout session id handed back to the client as the redirect
	// target; payment confirmation looks the row up by it.
	SessionID     string        `json:"session_id" gorm:"uniqueIndex;not null"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(16);default:'unpaid';index"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Paid reports whether the entry fee has been confirmed.
func (r *Registration) Paid() bool {
	return r.PaymentStatus == PaymentStatusPaid
}
