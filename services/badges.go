package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"recipe-share-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BadgeService evaluates badge criteria against a user's aggregate history
// and awards anything newly earned.
type BadgeService struct {
	DB       *gorm.DB
	Engine   *XPEngine
	Notifier *NotificationService
}

func NewBadgeService(db *gorm.DB, engine *XPEngine, notifier *NotificationService) *BadgeService {
	return &BadgeService{DB: db, Engine: engine, Notifier: notifier}
}

// CheckAndAward runs one sweep over the active catalog for a user and
// returns the badges newly awarded. The sweep is single-pass: bonus XP from
// an awarded badge can level the user up but does not retrigger evaluation
// of XP/level badges within the same sweep. Safe to call repeatedly — a
// second sweep with no intervening state change awards nothing.
func (s *BadgeService) CheckAndAward(userID string) ([]models.Badge, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("user %s not found: %w", userID, err)
	}

	earned, err := s.earnedSet(userID)
	if err != nil {
		return nil, err
	}

	var catalog []models.Badge
	if err := s.DB.Where("is_active = ?", true).Find(&catalog).Error; err != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", err)
	}

	oldLevel := user.Level
	// XP and level criteria read the totals as they stood when the sweep
	// started; bonus XP earned mid-sweep counts from the next sweep on.
	snapshot := user
	var newlyAwarded []models.Badge

	for _, badge := range catalog {
		if earned[badge.ID] {
			continue
		}

		// Criteria are evaluated in isolation: an error on one badge must
		// not abort the sweep over the rest of the catalog.
		current, auto, evalErr := s.criteriaValue(&snapshot, &badge)
		if evalErr != nil {
			log.Printf("[BADGES] criteria check failed for %q: %v", badge.Name, evalErr)
			continue
		}
		if !auto || current < badge.CriteriaValue {
			continue
		}

		userBadge := models.UserBadge{
			ID:      uuid.NewString(),
			UserID:  userID,
			BadgeID: badge.ID,
		}
		if err := s.DB.Create(&userBadge).Error; err != nil {
			// Concurrent sweep may have won the race; either way this badge
			// is not newly ours.
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				log.Printf("[BADGES] failed to award %q to %s: %v", badge.Name, userID, err)
			}
			continue
		}

		if badge.XPReward > 0 {
			user.XP += badge.XPReward
			user.Level = s.Engine.LevelForXP(user.XP)
			bonus := models.UserAction{
				ID:         uuid.NewString(),
				UserID:     userID,
				ActionType: models.ActionBadgeEarned,
				XPAwarded:  badge.XPReward,
				Metadata:   models.ActionMetadata{BadgeID: badge.ID},
			}
			if err := s.DB.Create(&bonus).Error; err != nil {
				log.Printf("[BADGES] failed to record bonus XP for %q: %v", badge.Name, err)
			}
		}

		_ = s.Notifier.NotifyBadgeEarned(&user, &badge)
		newlyAwarded = append(newlyAwarded, badge)
		log.Printf("🎖️ Badge awarded: %s → %s", badge.Name, user.Username)
	}

	// One user save per sweep, only when something was awarded.
	if len(newlyAwarded) > 0 {
		if user.Level > oldLevel {
			now := time.Now()
			user.LastLevelUpAt = &now
		}
		if err := s.DB.Save(&user).Error; err != nil {
			return newlyAwarded, fmt.Errorf("failed to save user after badge sweep: %w", err)
		}
	}

	return newlyAwarded, nil
}

// earnedSet returns the ids of badges the user already holds.
func (s *BadgeService) earnedSet(userID string) (map[string]bool, error) {
	var rows []models.UserBadge
	if err := s.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load earned badges: %w", err)
	}
	earned := make(map[string]bool, len(rows))
	for _, r := range rows {
		earned[r.BadgeID] = true
	}
	return earned, nil
}

// criteriaValue computes the current value for a badge's criteria kind.
// auto=false means the badge is never satisfied by automatic evaluation
// (special badges need an admin).
func (s *BadgeService) criteriaValue(user *models.User, badge *models.Badge) (current int64, auto bool, err error) {
	switch badge.CriteriaType {
	case models.CriteriaRecipesCreated:
		err = s.DB.Model(&models.Recipe{}).
			Where("author_id = ? AND status = ?", user.ID, models.RecipeStatusPublished).
			Count(&current).Error
		return current, true, err

	case models.CriteriaRecipesCooked:
		err = s.DB.Model(&models.CookedRecipe{}).Where("user_id = ?", user.ID).Count(&current).Error
		return current, true, err

	case models.CriteriaTotalXP:
		return user.XP, true, nil

	case models.CriteriaLevelReached:
		return int64(user.Level), true, nil

	case models.CriteriaFollowers:
		err = s.DB.Model(&models.Follow{}).Where("following_id = ?", user.ID).Count(&current).Error
		return current, true, err

	case models.CriteriaLikesReceived:
		var total struct{ Total int64 }
		err = s.DB.Model(&models.Recipe{}).
			Select("COALESCE(SUM(likes_count), 0) AS total").
			Where("author_id = ?", user.ID).
			Scan(&total).Error
		return total.Total, true, err

	case models.CriteriaCommentsPosted:
		err = s.DB.Model(&models.UserAction{}).
			Where("user_id = ? AND action_type = ?", user.ID, models.ActionCommentPosted).
			Count(&current).Error
		return current, true, err

	case models.CriteriaSpecial:
		return 0, false, nil
	}

	return 0, false, nil
}

// BadgeProgress reports how far a user is toward one badge.
type BadgeProgress struct {
	Badge           models.Badge `json:"badge"`
	CurrentValue    int64        `json:"current_value"`
	RequiredValue   int64        `json:"required_value"`
	PercentComplete float64      `json:"percentage"`
	Earned          bool         `json:"earned"`
}

// BadgeProgressReport buckets the full active catalog.
type BadgeProgressReport struct {
	Earned     []BadgeProgress `json:"earned"`
	InProgress []BadgeProgress `json:"in_progress"`
	Locked     []BadgeProgress `json:"locked"`
}

// Progress iterates the full active catalog and buckets each badge into
// earned / in_progress / locked for the user. No caching — acceptable for a
// small catalog.
func (s *BadgeService) Progress(userID string) (*BadgeProgressReport, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("user %s not found: %w", userID, err)
	}

	earned, err := s.earnedSet(userID)
	if err != nil {
		return nil, err
	}

	var catalog []models.Badge
	if err := s.DB.Where("is_active = ?", true).Find(&catalog).Error; err != nil {
		return nil, err
	}

	report := &BadgeProgressReport{
		Earned:     []BadgeProgress{},
		InProgress: []BadgeProgress{},
		Locked:     []BadgeProgress{},
	}

	for _, badge := range catalog {
		current, _, evalErr := s.criteriaValue(&user, &badge)
		if evalErr != nil {
			log.Printf("[BADGES] progress check failed for %q: %v", badge.Name, evalErr)
			current = 0
		}

		pct := 0.0
		if badge.CriteriaValue > 0 {
			pct = float64(current) / float64(badge.CriteriaValue) * 100
			if pct > 100 {
				pct = 100
			}
		}

		entry := BadgeProgress{
			Badge:           badge,
			CurrentValue:    current,
			RequiredValue:   badge.CriteriaValue,
			PercentComplete: round2(pct),
			Earned:          earned[badge.ID],
		}

		switch {
		case entry.Earned:
			report.Earned = append(report.Earned, entry)
		case pct > 0:
			report.InProgress = append(report.InProgress, entry)
		default:
			report.Locked = append(report.Locked, entry)
		}
	}

	return report, nil
}

// UserBadges lists the badges a user has earned.
func (s *BadgeService) UserBadges(userID string) ([]models.UserBadge, error) {
	var rows []models.UserBadge
	err := s.DB.Where("user_id = ?", userID).
		Preload("Badge").
		Order("awarded_at DESC").
		Find(&rows).Error
	return rows, err
}

// AwardSpecial manually grants a special badge (admin path). The bonus XP
// goes through the same apply step as the automatic sweep.
func (s *BadgeService) AwardSpecial(userID, badgeID string) (*models.Badge, error) {
	var badge models.Badge
	if err := s.DB.Where("id = ?", badgeID).First(&badge).Error; err != nil {
		return nil, fmt.Errorf("badge %s not found: %w", badgeID, err)
	}

	userBadge := models.UserBadge{
		ID:      uuid.NewString(),
		UserID:  userID,
		BadgeID: badge.ID,
	}
	if err := s.DB.Create(&userBadge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("user already has badge %q", badge.Name)
		}
		return nil, err
	}

	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	if badge.XPReward > 0 {
		user.XP += badge.XPReward
		user.Level = s.Engine.LevelForXP(user.XP)
		if err := s.DB.Save(&user).Error; err != nil {
			return nil, err
		}
		bonus := models.UserAction{
			ID:         uuid.NewString(),
			UserID:     userID,
			ActionType: models.ActionBadgeEarned,
			XPAwarded:  badge.XPReward,
			Metadata:   models.ActionMetadata{BadgeID: badge.ID},
		}
		_ = s.DB.Create(&bonus).Error
	}

	_ = s.Notifier.NotifyBadgeEarned(&user, &badge)
	return &badge, nil
}

// SeedDefaultBadges populates the catalog with the default set when it is
// empty; no-op otherwise.
func (s *BadgeService) SeedDefaultBadges() (int, error) {
	var existing int64
	if err := s.DB.Model(&models.Badge{}).Count(&existing).Error; err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	created := 0
	for _, b := range models.DefaultBadges {
		b.ID = uuid.NewString()
		b.IsActive = true
		if err := s.DB.Create(&b).Error; err != nil {
			return created, fmt.Errorf("failed to seed badge %q: %w", b.Name, err)
		}
		created++
	}
	log.Printf("✅ Seeded %d default badges", created)
	return created, nil
}
