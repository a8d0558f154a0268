// services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"contest-hub-service/countdown"
	"contest-hub-service/middleware"
	"contest-hub-service/models"
)

// PaymentService owns the registration lifecycle: checkout session
// creation, payment confirmation and the registered-check the contest
// page polls before enabling "Submit Task".
type PaymentService struct {
	DB           *gorm.DB
	BadgeService *BadgeService
	checkoutBase string
}

var errAlreadyConfirmed = errors.New("payment already confirmed")

func NewPaymentService(db *gorm.DB, badges *BadgeService) *PaymentService {
	base := os.Getenv("CHECKOUT_BASE_URL")
	if base == "" {
		base = "https://checkout.stripe.com/pay"
	}
	return &PaymentService{DB: db, BadgeService: badges, checkoutBase: base}
}

// CreateCheckoutSession opens an unpaid registration and returns the
// redirect URL for the external payment page. Register & Pay is
// unavailable once the deadline has ended or while the contest is not
// approved.
func (s *PaymentService) CreateCheckoutSession(c *fiber.Ctx) error {
	var body struct {
		ContestID string `json:"contestId"`
	}
	if err := c.BodyParser(&body); err != nil || body.ContestID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "contestId is required"})
	}
	email := middleware.UserEmail(c)

	var contest models.Contest
	if err := s.DB.First(&contest, "id = ?", body.ContestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "contest not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch contest"})
	}

	now := time.Now()
	if countdown.Remaining(contest.Deadline, now).Ended {
		return c.Status(403).JSON(fiber.Map{"error": "contest has ended — registration is closed"})
	}
	if !contest.AcceptsRegistration(now) {
		return c.Status(403).JSON(fiber.Map{"error": "contest is not open for registration"})
	}

	// Already paid? Don't open another session.
	var existing models.Registration
	err := s.DB.Where("contest_id = ? AND user_email = ?", contest.ID, email).First(&existing).Error
	switch {
	case err == nil && existing.Paid():
		return c.Status(409).JSON(fiber.Map{"error": "already registered for this contest"})
	case err == nil:
		// Unpaid session exists — hand back the same redirect so a retry
		// after an abandoned checkout just works.
		return c.JSON(fiber.Map{"url": s.checkoutURL(existing.SessionID)})
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(500).JSON(fiber.Map{"error": "failed to check registration"})
	}

	reg := models.Registration{
		ID:           uuid.NewString(),
		ContestID:    contest.ID,
		UserEmail:    email,
		ContestName:  contest.Name,
		ContestTitle: contest.Title,
		Deadline:     contest.Deadline,
		Price:        contest.Price,
		SessionID:    uuid.NewString(),
	}
	if err := s.DB.Create(&reg).Error; err != nil {
		log.Printf("ERROR creating checkout session: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}

	return c.JSON(fiber.Map{"url": s.checkoutURL(reg.SessionID)})
}

func (s *PaymentService) checkoutURL(sessionID string) string {
	sep := "?"
	if strings.Contains(s.checkoutBase, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%ssession_id=%s", s.checkoutBase, sep, sessionID)
}

// ConfirmPayment is the post-redirect confirmation: looks the
// registration up by session id, marks it paid and bumps the contest
// and profile counters in one transaction. Confirming twice is a no-op
// that still returns the contest id for the redirect.
func (s *PaymentService) ConfirmPayment(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "session_id is required"})
	}

	var reg models.Registration
	if err := s.DB.First(&reg, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "unknown checkout session"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch registration"})
	}

	// The unpaid guard in the UPDATE is the idempotence check: two
	// confirms racing past the read above still bump the counters once.
	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Registration{}).
			Where("session_id = ? AND payment_status = ?", sessionID, models.PaymentStatusUnpaid).
			Updates(map[string]any{"payment_status": models.PaymentStatusPaid, "paid_at": &now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyConfirmed
		}
		if err := tx.Model(&models.Contest{}).Where("id = ?", reg.ContestID).
			UpdateColumn("participant_count", gorm.Expr("participant_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("email = ?", reg.UserEmail).
			UpdateColumn("total_participated", gorm.Expr("total_participated + 1")).Error
	})
	if errors.Is(err, errAlreadyConfirmed) {
		return c.JSON(fiber.Map{"contestId": reg.ContestID, "alreadyConfirmed": true})
	}
	if err != nil {
		log.Printf("ERROR confirming payment for session %s: %v", sessionID, err)
		return c.Status(500).JSON(fiber.Map{"error": "payment confirmation failed"})
	}

	if err := s.BadgeService.AutoAwardBadges(reg.UserEmail); err != nil {
		log.Printf("⚠️ badge award after payment failed for %s: %v", reg.UserEmail, err)
	}

	log.Printf("✅ Payment confirmed: %s entered contest %s", reg.UserEmail, reg.ContestID)
	return c.JSON(fiber.Map{"contestId": reg.ContestID})
}

// CheckRegistration answers "is the current user registered (paid) for
// this contest" for the contest detail page.
func (s *PaymentService) CheckRegistration(c *fiber.Ctx) error {
	email := middleware.UserEmail(c)

	var count int64
	err := s.DB.Model(&models.Registration{}).
		Where("contest_id = ? AND user_email = ? AND payment_status = ?",
			c.Params("contestId"), email, models.PaymentStatusPaid).
		Count(&count).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to check registration"})
	}
	return c.JSON(fiber.Map{"registered": count > 0})
}

// GetParticipations backs the user's "My Participated" dashboard.
func (s *PaymentService) GetParticipations(c *fiber.Ctx) error {
	var regs []models.Registration
	err := s.DB.Where("user_email = ? AND payment_status = ?",
		strings.ToLower(c.Params("email")), models.PaymentStatusPaid).
		Order("deadline ASC").
		Find(&regs).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch participations"})
	}
	return c.JSON(regs)
}
