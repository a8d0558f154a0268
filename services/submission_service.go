// services/submission_service.go
package services

import (
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"contest-hub-service/countdown"
	"contest-hub-service/middleware"
	"contest-hub-service/models"
)

type SubmissionService struct {
	DB *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{DB: db}
}

// CreateSubmission records a participant's delivered work. Guards, in
// order: the contest must exist and still be live (ended contests take
// nothing, paid or not), the submitter must hold a paid registration,
// and submission is one-shot per contest per user.
func (s *SubmissionService) CreateSubmission(c *fiber.Ctx) error {
	var body struct {
		ContestID      string `json:"contestId"`
		SubmissionLink string `json:"submissionLink"`
		Note           string `json:"note"`
		SubmitterName  string `json:"submitterName"`
		SubmitterImage string `json:"submitterImage"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.ContestID == "" || body.SubmissionLink == "" {
		return c.Status(400).JSON(fiber.Map{"error": "contestId and submissionLink are required"})
	}
	if u, err := url.Parse(body.SubmissionLink); err != nil || u.Scheme == "" || u.Host == "" {
		return c.Status(400).JSON(fiber.Map{"error": "submissionLink must be an absolute URL"})
	}
	email := middleware.UserEmail(c)

	var contest models.Contest
	if err := s.DB.First(&contest, "id = ?", body.ContestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "contest not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch contest"})
	}

	if countdown.Remaining(contest.Deadline, time.Now()).Ended {
		return c.Status(403).JSON(fiber.Map{"error": "contest has ended — submissions are closed"})
	}

	var paid int64
	err := s.DB.Model(&models.Registration{}).
		Where("contest_id = ? AND user_email = ? AND payment_status = ?",
			contest.ID, email, models.PaymentStatusPaid).
		Count(&paid).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to check registration"})
	}
	if paid == 0 {
		return c.Status(403).JSON(fiber.Map{"error": "register and pay before submitting"})
	}

	var already int64
	err = s.DB.Model(&models.Submission{}).
		Where("contest_id = ? AND submitter_email = ?", contest.ID, email).
		Count(&already).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to check existing submission"})
	}
	if already > 0 {
		return c.Status(409).JSON(fiber.Map{"error": "you already submitted for this contest"})
	}

	sub := models.Submission{
		ID:                uuid.NewString(),
		ContestID:         contest.ID,
		ContestName:       contest.Name,
		CreatorEmail:      contest.CreatorEmail,
		SubmissionLink:    body.SubmissionLink,
		Note:              body.Note,
		SubmitterName:     body.SubmitterName,
		SubmitterEmail:    email,
		SubmitterImageURL: body.SubmitterImage,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		return tx.Model(&models.Contest{}).Where("id = ?", contest.ID).
			UpdateColumn("submission_count", gorm.Expr("submission_count + 1")).Error
	})
	if err != nil {
		log.Printf("ERROR creating submission: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}

	return c.Status(201).JSON(fiber.Map{"insertedId": sub.ID})
}

// GetSubmissionsByCreator lists every submission sent to contests the
// given creator owns — the declare-winner dashboard feed.
func (s *SubmissionService) GetSubmissionsByCreator(c *fiber.Ctx) error {
	var subs []models.Submission
	err := s.DB.Where("creator_email = ?", c.Params("email")).
		Order("submitted_at DESC").
		Find(&subs).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch submissions"})
	}
	return c.JSON(subs)
}

// GetSubmissionsForContest lists the entries of a single contest.
func (s *SubmissionService) GetSubmissionsForContest(c *fiber.Ctx) error {
	var subs []models.Submission
	err := s.DB.Where("contest_id = ?", c.Params("id")).
		Order("submitted_at ASC").
		Find(&subs).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch submissions"})
	}
	return c.JSON(subs)
}
