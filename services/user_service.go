// services/user_service.go
package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"contest-hub-service/middleware"
	"contest-hub-service/models"
)

type UserService struct {
	DB    *gorm.DB
	Cache *Cache
}

func NewUserService(db *gorm.DB, cache *Cache) *UserService {
	return &UserService{DB: db, Cache: cache}
}

const topUsersKey = "users:top"

// SaveUser upserts the profile on every login — the auth provider owns
// identity, we only mirror name/avatar and keep role and counters.
func (s *UserService) SaveUser(c *fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.Email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "email is required"})
	}

	user := models.User{
		ID:       uuid.NewString(),
		Name:     body.Name,
		Email:    strings.ToLower(body.Email),
		ImageURL: body.ImageURL,
		Role:     models.RoleUser,
	}

	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "image_url", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		log.Printf("ERROR upserting user %s: %v", body.Email, err)
		return c.Status(500).JSON(fiber.Map{"error": "DB upsert failed"})
	}

	var saved models.User
	s.DB.First(&saved, "email = ?", user.Email)
	return c.Status(201).JSON(saved)
}

// GetUsers is the admin user-management listing.
func (s *UserService) GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := s.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch users"})
	}
	return c.JSON(users)
}

func (s *UserService) GetUserByEmail(c *fiber.Ctx) error {
	var user models.User
	if err := s.DB.First(&user, "email = ?", strings.ToLower(c.Params("email"))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch user"})
	}
	return c.JSON(user)
}

// UpdateUserProfile lets a user edit their own display fields.
func (s *UserService) UpdateUserProfile(c *fiber.Ctx) error {
	var user models.User
	if err := s.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch user"})
	}
	if middleware.UserEmail(c) != user.Email {
		return c.Status(403).JSON(fiber.Map{"error": "cannot edit another user's profile"})
	}

	var body struct {
		Name     *string `json:"name"`
		ImageURL *string `json:"image_url"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		user.Name = *body.Name
	}
	if body.ImageURL != nil {
		user.ImageURL = *body.ImageURL
	}

	if err := s.DB.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	return c.JSON(user)
}

// UpdateUserRole is the admin role switch. Roles are a closed set —
// anything outside it is a 400, not a silent string write.
func (s *UserService) UpdateUserRole(c *fiber.Ctx) error {
	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	role, err := models.ParseRole(body.Role)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "role must be admin, creator or user"})
	}

	res := s.DB.Model(&models.User{}).Where("id = ?", c.Params("id")).Update("role", role)
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}

	log.Printf("✅ Role of user %s set to %s", c.Params("id"), role)
	return c.JSON(fiber.Map{"modifiedCount": res.RowsAffected, "role": role})
}

// GetTopUsers powers the leaderboard: most contest wins first.
func (s *UserService) GetTopUsers(c *fiber.Ctx) error {
	var users []models.User
	if s.Cache.GetJSON(c.Context(), topUsersKey, &users) {
		return c.JSON(users)
	}

	err := s.DB.Where("total_won > 0").
		Order("total_won DESC, total_participated DESC").
		Limit(10).
		Find(&users).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch top users"})
	}

	s.Cache.SetJSON(c.Context(), topUsersKey, users, time.Minute)
	return c.JSON(users)
}

// GetMyBadges lists awarded badges with their static type info.
func (s *UserService) GetMyBadges(c *fiber.Ctx) error {
	email := middleware.UserEmail(c)

	var awarded []models.UserBadge
	if err := s.DB.Where("user_email = ?", email).Find(&awarded).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch badges"})
	}
	if len(awarded) == 0 {
		return c.JSON([]fiber.Map{})
	}

	ids := make([]string, len(awarded))
	for i, b := range awarded {
		ids[i] = b.BadgeTypeID
	}
	var types []models.BadgeType
	if err := s.DB.Where("id IN ?", ids).Find(&types).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch badge types"})
	}
	byID := make(map[string]models.BadgeType, len(types))
	for _, t := range types {
		byID[t.ID] = t
	}

	out := make([]fiber.Map, 0, len(awarded))
	for _, b := range awarded {
		t := byID[b.BadgeTypeID]
		out = append(out, fiber.Map{
			"code":        t.Code,
			"name":        t.Name,
			"description": t.Description,
			"rarity":      t.Rarity,
			"awarded_at":  b.AwardedAt,
		})
	}
	return c.JSON(out)
}
