package services

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"contest-hub-service/middleware"
	"contest-hub-service/models"
)

func submissionApp(svc *SubmissionService) *fiber.App {
	app := fiber.New()
	app.Post("/submissions", middleware.UserContextMiddleware(), svc.CreateSubmission)
	return app
}

func postSubmission(t *testing.T, app *fiber.App, contestID, email string) int {
	t.Helper()
	body := fmt.Sprintf(`{"contestId":%q,"submissionLink":"https://work.example.com/entry","submitterName":"Ana"}`, contestID)
	req := httptest.NewRequest("POST", "/submissions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Email", email)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp.StatusCode
}

// Submission is one-shot per contest per user: the second attempt gets
// 409 and the submission counter stays at one.
func TestCreateSubmissionOneShot(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubmissionService(db)
	app := submissionApp(svc)

	contest := seedApprovedContest(t, db)
	user := seedUser(t, db, "ana@example.com")
	seedPaidRegistration(t, db, contest, user.Email)

	if code := postSubmission(t, app, contest.ID, user.Email); code != fiber.StatusCreated {
		t.Fatalf("first submission returned %d, want 201", code)
	}
	if code := postSubmission(t, app, contest.ID, user.Email); code != fiber.StatusConflict {
		t.Fatalf("second submission returned %d, want 409", code)
	}

	var count int64
	if err := db.Model(&models.Submission{}).
		Where("contest_id = ?", contest.ID).Count(&count).Error; err != nil {
		t.Fatalf("count submissions: %v", err)
	}
	if count != 1 {
		t.Errorf("submission rows = %d, want 1", count)
	}

	var got models.Contest
	if err := db.First(&got, "id = ?", contest.ID).Error; err != nil {
		t.Fatalf("reload contest: %v", err)
	}
	if got.SubmissionCount != 1 {
		t.Errorf("submission_count = %d, want 1", got.SubmissionCount)
	}
}

func TestCreateSubmissionRequiresPaidRegistration(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubmissionService(db)
	app := submissionApp(svc)

	contest := seedApprovedContest(t, db)
	user := seedUser(t, db, "ana@example.com")

	if code := postSubmission(t, app, contest.ID, user.Email); code != fiber.StatusForbidden {
		t.Fatalf("unregistered submission returned %d, want 403", code)
	}
}

// Milestone badges award exactly once no matter how often the triggers
// re-run.
func TestAutoAwardBadgesIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewBadgeService(db)
	if err := svc.SeedBadgeTypes(); err != nil {
		t.Fatalf("seed badge types: %v", err)
	}

	user := seedUser(t, db, "ana@example.com")
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).
		UpdateColumn("total_participated", 1).Error; err != nil {
		t.Fatalf("bump counter: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.AutoAwardBadges(user.Email); err != nil {
			t.Fatalf("award pass %d: %v", i, err)
		}
	}

	var count int64
	if err := db.Model(&models.UserBadge{}).
		Where("user_email = ?", user.Email).Count(&count).Error; err != nil {
		t.Fatalf("count badges: %v", err)
	}
	if count != 1 {
		t.Errorf("awarded badges = %d, want 1", count)
	}
}
