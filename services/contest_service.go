// services/contest_service.go
package services

import (
	"errors"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"contest-hub-service/middleware"
	"contest-hub-service/models"
	"contest-hub-service/utils"
)

type ContestService struct {
	DB    *gorm.DB
	Cache *Cache
}

func NewContestService(db *gorm.DB, cache *Cache) *ContestService {
	return &ContestService{DB: db, Cache: cache}
}

const popularContestsKey = "contests:popular"

// CreateContest registers a new contest for moderation. Creators send a
// multipart form; the banner goes to R2 (or local uploads when R2 is
// not configured). Status always starts as pending — approval is an
// admin action.
func (s *ContestService) CreateContest(c *fiber.Ctx) error {
	name := c.FormValue("name")
	title := c.FormValue("title")
	description := c.FormValue("description")
	taskInstruction := c.FormValue("task_instruction")
	category := c.FormValue("category")
	priceStr := c.FormValue("price")
	prizeMoneyStr := c.FormValue("prize_money")
	deadlineStr := c.FormValue("deadline")

	if name == "" || deadlineStr == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name and deadline are required"})
	}

	price := 0.0
	if priceStr != "" {
		f, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || f < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "price must be a non-negative number"})
		}
		price = f
	}

	prizeMoney := 0.0
	if prizeMoneyStr != "" {
		f, err := strconv.ParseFloat(prizeMoneyStr, 64)
		if err != nil || f < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "prize_money must be a non-negative number"})
		}
		prizeMoney = f
	}

	deadline, err := time.Parse(time.RFC3339, deadlineStr)
	if err != nil {
		// date-only form input, deadline means end of that day
		d, derr := time.Parse("2006-01-02", deadlineStr)
		if derr != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid deadline (use RFC3339 or YYYY-MM-DD)"})
		}
		deadline = d.Add(24*time.Hour - time.Second)
	}
	if !deadline.After(time.Now()) {
		return c.Status(400).JSON(fiber.Map{"error": "deadline must be in the future"})
	}

	// Creator snapshot: email from the gateway context, display fields
	// from the form
	creatorEmail := middleware.UserEmail(c)
	creatorName := c.FormValue("creator_name")
	creatorImage := c.FormValue("creator_image_url")

	// Banner: uploaded file wins over a raw URL
	bannerURL := c.FormValue("banner_image_url")
	if banner, ferr := c.FormFile("banner_image"); ferr == nil && banner.Size > 0 {
		ext := filepath.Ext(banner.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := "banners/" + uuid.NewString() + ext
		if utils.R2Enabled() {
			url, uerr := utils.UploadFileToR2(banner, key)
			if uerr != nil {
				return c.Status(500).JSON(fiber.Map{"error": "failed to upload banner image"})
			}
			bannerURL = url
		} else {
			dest := utils.GetUploadPath(key)
			if uerr := utils.SaveFile(banner, dest); uerr != nil {
				return c.Status(500).JSON(fiber.Map{"error": "failed to store banner image"})
			}
			bannerURL = "/" + filepath.ToSlash(dest)
		}
	}

	contest := &models.Contest{
		ID:              uuid.NewString(),
		Slug:            slug.Make(name) + "-" + uuid.NewString()[:8],
		Name:            name,
		Title:           title,
		Description:     description,
		TaskInstruction: taskInstruction,
		Category:        category,
		Price:           price,
		PrizeMoney:      prizeMoney,
		BannerImageURL:  bannerURL,
		Deadline:        deadline,
		CreatorName:     creatorName,
		CreatorEmail:    creatorEmail,
		CreatorImageURL: creatorImage,
		Status:          models.ContestStatusPending,
	}

	if err := s.DB.Create(contest).Error; err != nil {
		log.Printf("ERROR creating contest: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}

	return c.Status(201).JSON(contest)
}

// GetAllContests is the admin moderation view — every status included.
func (s *ContestService) GetAllContests(c *fiber.Ctx) error {
	var contests []models.Contest
	if err := s.DB.Order("created_at DESC").Find(&contests).Error; err != nil {
		log.Printf("ERROR fetching contests: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch contests"})
	}
	return c.JSON(contests)
}

// GetApprovedContests is the public browse/search listing. Only
// approved contests are visible to end users.
func (s *ContestService) GetApprovedContests(c *fiber.Ctx) error {
	db := s.DB.Where("status = ?", models.ContestStatusApproved)

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		term := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", term, term)
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		db = db.Where("category = ?", category)
	}

	var contests []models.Contest
	if err := db.Order("deadline ASC").Find(&contests).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch contests"})
	}
	return c.JSON(contests)
}

// GetPopularContests returns the most-entered approved contests,
// cached briefly since the home page hits it on every load.
func (s *ContestService) GetPopularContests(c *fiber.Ctx) error {
	var contests []models.Contest
	if s.Cache.GetJSON(c.Context(), popularContestsKey, &contests) {
		return c.JSON(contests)
	}

	err := s.DB.Where("status = ?", models.ContestStatusApproved).
		Order("participant_count DESC").
		Limit(6).
		Find(&contests).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch popular contests"})
	}

	s.Cache.SetJSON(c.Context(), popularContestsKey, contests, time.Minute)
	return c.JSON(contests)
}

func (s *ContestService) GetContestByID(c *fiber.Ctx) error {
	var contest models.Contest
	if err := s.DB.First(&contest, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "contest not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch contest"})
	}
	return c.JSON(contest)
}

// GetContestsByCreator backs the creator's "My Contests" dashboard.
func (s *ContestService) GetContestsByCreator(c *fiber.Ctx) error {
	var contests []models.Contest
	err := s.DB.Where("creator_email = ?", c.Params("email")).
		Order("created_at DESC").
		Find(&contests).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch contests"})
	}
	return c.JSON(contests)
}

// GetWinningContests lists contests a user has won.
func (s *ContestService) GetWinningContests(c *fiber.Ctx) error {
	var contests []models.Contest
	err := s.DB.Where("winner_email = ?", c.Params("email")).
		Order("updated_at DESC").
		Find(&contests).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch winning contests"})
	}
	return c.JSON(contests)
}

type contestUpdateInput struct {
	Name            *string  `json:"name"`
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	TaskInstruction *string  `json:"task_instruction"`
	Category        *string  `json:"category"`
	Price           *float64 `json:"price"`
	PrizeMoney      *float64 `json:"prize_money"`
	BannerImageURL  *string  `json:"banner_image_url"`
	Deadline        *string  `json:"deadline"`
}

// UpdateContest is the creator edit. Winner and status fields are not
// editable here; any content edit sends the contest back to pending so
// an admin looks at it again.
func (s *ContestService) UpdateContest(c *fiber.Ctx) error {
	var contest models.Contest
	if err := s.DB.First(&contest, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "contest not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch contest"})
	}

	role, _ := c.Locals("user_role").(models.Role)
	if email := middleware.UserEmail(c); email != contest.CreatorEmail && role != models.RoleAdmin {
		return c.Status(403).JSON(fiber.Map{"error": "only the contest creator can edit it"})
	}
	if contest.HasWinner() {
		return c.Status(409).JSON(fiber.Map{"error": "contest already has a winner"})
	}

	var input contestUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if input.Name != nil {
		contest.Name = *input.Name
	}
	if input.Title != nil {
		contest.Title = *input.Title
	}
	if input.Description != nil {
		contest.Description = *input.Description
	}
	if input.TaskInstruction != nil {
		contest.TaskInstruction = *input.TaskInstruction
	}
	if input.Category != nil {
		contest.Category = *input.Category
	}
	if input.Price != nil && *input.Price >= 0 {
		contest.Price = *input.Price
	}
	if input.PrizeMoney != nil && *input.PrizeMoney >= 0 {
		contest.PrizeMoney = *input.PrizeMoney
	}
	if input.BannerImageURL != nil {
		contest.BannerImageURL = *input.BannerImageURL
	}
	if input.Deadline != nil {
		deadline, err := time.Parse(time.RFC3339, *input.Deadline)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid deadline (use RFC3339)"})
		}
		contest.Deadline = deadline
	}
	contest.Status = models.ContestStatusPending

	if err := s.DB.Save(&contest).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	s.Cache.Delete(c.Context(), popularContestsKey)

	return c.JSON(contest)
}

// UpdateContestStatus is the admin moderation action: pending →
// approved | rejected, re-approval of a rejected contest included.
// Setting the same status twice is a no-op.
func (s *ContestService) UpdateContestStatus(c *fiber.Ctx) error {
	var body struct {
		Status models.ContestStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if !models.ValidContestStatus(body.Status) {
		return c.Status(400).JSON(fiber.Map{"error": "status must be pending, approved or rejected"})
	}

	var contest models.Contest
	if err := s.DB.First(&contest, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "contest not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch contest"})
	}

	if contest.Status == body.Status {
		return c.JSON(fiber.Map{"modifiedCount": 0, "status": contest.Status})
	}

	contest.Status = body.Status
	if err := s.DB.Save(&contest).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	s.Cache.Delete(c.Context(), popularContestsKey)

	log.Printf("✅ Contest %s moderated: %s", contest.ID, contest.Status)
	return c.JSON(fiber.Map{"modifiedCount": 1, "status": contest.Status})
}

// DeleteContest removes a contest permanently (soft delete). Dependent
// registrations and submissions stay behind as orphans.
func (s *ContestService) DeleteContest(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Contest{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB delete failed"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "contest not found"})
	}
	s.Cache.Delete(c.Context(), popularContestsKey)
	return c.JSON(fiber.Map{"deletedCount": res.RowsAffected})
}
