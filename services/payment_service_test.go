package services

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"contest-hub-service/middleware"
	"contest-hub-service/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Contest{}, &models.User{}, &models.Registration{},
		&models.Submission{}, &models.Winner{},
		&models.BadgeType{}, &models.UserBadge{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedApprovedContest(t *testing.T, db *gorm.DB) models.Contest {
	t.Helper()
	contest := models.Contest{
		ID:           uuid.NewString(),
		Slug:         "logo-rush-" + uuid.NewString()[:8],
		Name:         "Logo Rush",
		Category:     "design",
		Price:        25,
		PrizeMoney:   500,
		Deadline:     time.Now().Add(48 * time.Hour),
		Status:       models.ContestStatusApproved,
		CreatorEmail: "creator@example.com",
	}
	if err := db.Create(&contest).Error; err != nil {
		t.Fatalf("seed contest: %v", err)
	}
	return contest
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		ID:    uuid.NewString(),
		Name:  "Ana",
		Email: email,
		Role:  models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedPaidRegistration(t *testing.T, db *gorm.DB, contest models.Contest, email string) models.Registration {
	t.Helper()
	now := time.Now()
	reg := models.Registration{
		ID:            uuid.NewString(),
		ContestID:     contest.ID,
		UserEmail:     email,
		ContestName:   contest.Name,
		Deadline:      contest.Deadline,
		Price:         contest.Price,
		SessionID:     uuid.NewString(),
		PaymentStatus: models.PaymentStatusPaid,
		PaidAt:        &now,
	}
	if err := db.Create(&reg).Error; err != nil {
		t.Fatalf("seed registration: %v", err)
	}
	return reg
}

func paymentApp(svc *PaymentService) *fiber.App {
	app := fiber.New()
	userCtx := middleware.UserContextMiddleware()
	app.Post("/create-checkout-session", userCtx, svc.CreateCheckoutSession)
	app.Patch("/payment-success", userCtx, svc.ConfirmPayment)
	return app
}

// Confirming the same checkout session twice must mark the row paid
// once and bump the contest and profile counters once. The second call
// still answers 200 for the redirect.
func TestConfirmPaymentBumpsCountersOnce(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db, NewBadgeService(db))
	app := paymentApp(svc)

	contest := seedApprovedContest(t, db)
	user := seedUser(t, db, "ana@example.com")
	reg := models.Registration{
		ID:        uuid.NewString(),
		ContestID: contest.ID,
		UserEmail: user.Email,
		Deadline:  contest.Deadline,
		SessionID: uuid.NewString(),
	}
	if err := db.Create(&reg).Error; err != nil {
		t.Fatalf("seed registration: %v", err)
	}

	confirm := func() int {
		req := httptest.NewRequest("PATCH", "/payment-success?session_id="+reg.SessionID, nil)
		req.Header.Set("X-User-Email", user.Email)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp.StatusCode
	}

	if code := confirm(); code != fiber.StatusOK {
		t.Fatalf("first confirm returned %d, want 200", code)
	}
	if code := confirm(); code != fiber.StatusOK {
		t.Fatalf("second confirm returned %d, want 200", code)
	}

	var got models.Contest
	if err := db.First(&got, "id = ?", contest.ID).Error; err != nil {
		t.Fatalf("reload contest: %v", err)
	}
	if got.ParticipantCount != 1 {
		t.Errorf("participant_count = %d, want 1", got.ParticipantCount)
	}

	var u models.User
	if err := db.First(&u, "email = ?", user.Email).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if u.TotalParticipated != 1 {
		t.Errorf("total_participated = %d, want 1", u.TotalParticipated)
	}

	var r models.Registration
	if err := db.First(&r, "session_id = ?", reg.SessionID).Error; err != nil {
		t.Fatalf("reload registration: %v", err)
	}
	if !r.Paid() {
		t.Errorf("registration payment_status = %s, want paid", r.PaymentStatus)
	}
	if r.PaidAt == nil {
		t.Error("paid_at not set")
	}
}

func TestConfirmPaymentUnknownSession(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db, NewBadgeService(db))
	app := paymentApp(svc)

	req := httptest.NewRequest("PATCH", "/payment-success?session_id="+uuid.NewString(), nil)
	req.Header.Set("X-User-Email", "ana@example.com")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("unknown session returned %d, want 404", resp.StatusCode)
	}
}

// A paid registration blocks a second checkout session with 409.
func TestCreateCheckoutSessionAlreadyPaid(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db, NewBadgeService(db))
	app := paymentApp(svc)

	contest := seedApprovedContest(t, db)
	user := seedUser(t, db, "ana@example.com")
	seedPaidRegistration(t, db, contest, user.Email)

	body := fmt.Sprintf(`{"contestId":%q}`, contest.ID)
	req := httptest.NewRequest("POST", "/create-checkout-session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Email", user.Email)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("second registration returned %d, want 409", resp.StatusCode)
	}
}
