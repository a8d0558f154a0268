// services/badge_service.go
package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"contest-hub-service/models"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// SeedBadgeTypes makes sure the static milestone badges exist. Safe to
// run on every startup.
func (s *BadgeService) SeedBadgeTypes() error {
	for _, t := range models.BadgeTriggers {
		badge := t
		badge.ID = uuid.NewString()
		err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&badge).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// AutoAwardBadges checks all milestone triggers for a user after their
// counters changed.
func (s *BadgeService) AutoAwardBadges(email string) error {
	var user models.User
	if err := s.DB.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	for _, trigger := range models.BadgeTriggers {
		if !s.meetsThreshold(&user, trigger.Code) {
			continue
		}

		var badgeType models.BadgeType
		if err := s.DB.First(&badgeType, "code = ?", trigger.Code).Error; err != nil {
			continue
		}

		var count int64
		err := s.DB.Model(&models.UserBadge{}).
			Where("user_email = ? AND badge_type_id = ?", email, badgeType.ID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			userBadge := models.UserBadge{
				ID:          uuid.NewString(),
				UserEmail:   email,
				BadgeTypeID: badgeType.ID,
			}
			if err := s.DB.Create(&userBadge).Error; err != nil {
				return err
			}
			log.Printf("🎖️ Badge awarded: %s → %s", badgeType.Name, email)
		}
	}
	return nil
}

func (s *BadgeService) meetsThreshold(user *models.User, code string) bool {
	switch code {
	case "FIRST_ENTRY":
		return user.TotalParticipated >= 1
	case "FIRST_WIN":
		return user.TotalWon >= 1
	case "FIVE_WINS":
		return user.TotalWon >= 5
	}
	return false
}
