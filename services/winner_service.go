// services/winner_service.go
package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"contest-hub-service/middleware"
	"contest-hub-service/models"
)

type WinnerService struct {
	DB           *gorm.DB
	BadgeService *BadgeService
}

func NewWinnerService(db *gorm.DB, badges *BadgeService) *WinnerService {
	return &WinnerService{DB: db, BadgeService: badges}
}

// DeclareWinner promotes one submission to winner. Guards: only the
// contest creator may declare, the deadline must have passed (derived
// from the stored deadline here, never from client state), and no
// winner may exist yet. The three effects — the contest's winner
// fields, the winner's profile counter and the public winner record —
// commit in a single transaction, so a partial declaration can never be
// observed.
func (s *WinnerService) DeclareWinner(c *fiber.Ctx) error {
	var body struct {
		SubmissionID string `json:"submissionId"`
	}
	if err := c.BodyParser(&body); err != nil || body.SubmissionID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "submissionId is required"})
	}

	var contest models.Contest
	if err := s.DB.First(&contest, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "contest not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch contest"})
	}

	role, _ := c.Locals("user_role").(models.Role)
	if middleware.UserEmail(c) != contest.CreatorEmail && role != models.RoleAdmin {
		return c.Status(403).JSON(fiber.Map{"error": "only the contest creator can declare a winner"})
	}
	if !contest.Ended(time.Now()) {
		return c.Status(403).JSON(fiber.Map{"error": "contest is still running"})
	}
	if contest.HasWinner() {
		return c.Status(409).JSON(fiber.Map{"error": "winner already declared for this contest"})
	}

	var sub models.Submission
	if err := s.DB.First(&sub, "id = ? AND contest_id = ?", body.SubmissionID, contest.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "submission not found for this contest"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch submission"})
	}

	winner := models.Winner{
		ID:          uuid.NewString(),
		ContestID:   contest.ID,
		Name:        sub.SubmitterName,
		AvatarURL:   sub.SubmitterImageURL,
		Prize:       contest.PrizeMoney,
		Email:       sub.SubmitterEmail,
		ContestName: contest.Name,
		Position:    models.WinnerPosition,
		Badge:       models.WinnerBadge,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Guarded update: the WHERE clause re-checks that no winner
		// snuck in between the read above and this write.
		res := tx.Model(&models.Contest{}).
			Where("id = ? AND winner_email = ''", contest.ID).
			Updates(map[string]any{
				"winner_name":      sub.SubmitterName,
				"winner_email":     sub.SubmitterEmail,
				"winner_image_url": sub.SubmitterImageURL,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyDeclared
		}
		if err := tx.Model(&models.User{}).Where("email = ?", sub.SubmitterEmail).
			UpdateColumn("total_won", gorm.Expr("total_won + 1")).Error; err != nil {
			return err
		}
		return tx.Create(&winner).Error
	})
	if errors.Is(err, errAlreadyDeclared) {
		return c.Status(409).JSON(fiber.Map{"error": "winner already declared for this contest"})
	}
	if err != nil {
		log.Printf("ERROR declaring winner for contest %s: %v", contest.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "winner declaration failed"})
	}

	if err := s.BadgeService.AutoAwardBadges(sub.SubmitterEmail); err != nil {
		log.Printf("⚠️ badge award after win failed for %s: %v", sub.SubmitterEmail, err)
	}

	log.Printf("🏆 Winner declared for contest %s: %s", contest.ID, sub.SubmitterEmail)
	return c.JSON(fiber.Map{"modifiedCount": 1, "winner": winner})
}

var errAlreadyDeclared = errors.New("winner already declared")

// GetWinners feeds the home-page winner advertisement.
func (s *WinnerService) GetWinners(c *fiber.Ctx) error {
	var winners []models.Winner
	if err := s.DB.Order("created_at DESC").Limit(20).Find(&winners).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch winners"})
	}
	return c.JSON(winners)
}

// StreamWinnersSSE pushes newly declared winners as server-sent events
// so the advertisement section updates without polling.
func (s *WinnerService) StreamWinnersSSE(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var lastMaxCreatedAt time.Time
		var latest models.Winner
		if err := s.DB.Order("created_at DESC").First(&latest).Error; err == nil {
			lastMaxCreatedAt = latest.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("SSE init error: %v", err)
		}

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var fresh []models.Winner
				err := s.DB.Where("created_at > ?", lastMaxCreatedAt).
					Order("created_at ASC").
					Find(&fresh).Error
				if err != nil {
					log.Printf("SSE query error: %v", err)
					continue
				}
				if len(fresh) == 0 {
					continue
				}
				lastMaxCreatedAt = fresh[len(fresh)-1].CreatedAt

				for _, win := range fresh {
					payload, _ := json.Marshal(win)
					fmt.Fprintf(w, "event: winner\ndata: %s\n\n", payload)
				}
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}
			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
