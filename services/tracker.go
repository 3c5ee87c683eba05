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

// ActionTracker turns qualifying user events into XP awards, immutable
// action records and badge sweeps.
//
// Per event: idempotence gate → reward computation → XP apply + level
// recompute + action record (one transaction) → badge sweep (best-effort)
// → notification (best-effort).
type ActionTracker struct {
	DB       *gorm.DB
	Engine   *XPEngine
	Badges   *BadgeService
	Notifier *NotificationService
}

func NewActionTracker(db *gorm.DB, engine *XPEngine, badges *BadgeService, notifier *NotificationService) *ActionTracker {
	return &ActionTracker{DB: db, Engine: engine, Badges: badges, Notifier: notifier}
}

// TrackResult is the composite outcome returned to the HTTP layer.
// Performed=false with Success=true is the "already performed" business
// outcome, not a failure.
type TrackResult struct {
	Success   bool           `json:"success"`
	Performed bool           `json:"performed"`
	Message   string         `json:"message"`
	XPAwarded int64          `json:"xp_awarded"`
	NewXP     int64          `json:"new_xp"`
	OldLevel  int            `json:"old_level"`
	NewLevel  int            `json:"new_level"`
	LevelUp   *LevelUp       `json:"level_up,omitempty"`
	NewBadges []models.Badge `json:"new_badges"`
}

var errAlreadyPerformed = errors.New("action already performed")

// dedupeKey returns the storage-level idempotence key for inherently
// singular actions, or nil for repeatable kinds. Daily login is singular
// per calendar day (UTC); cooking is singular per (user, recipe) ever.
func dedupeKey(userID, actionType string, recipeID *string) *string {
	switch actionType {
	case models.ActionDailyLogin:
		k := fmt.Sprintf("%s:%s:%s", actionType, userID, time.Now().UTC().Format("2006-01-02"))
		return &k
	case models.ActionRecipeCooked:
		if recipeID != nil {
			k := fmt.Sprintf("%s:%s:%s", actionType, userID, *recipeID)
			return &k
		}
	}
	return nil
}

func alreadyPerformedMessage(actionType string) string {
	switch actionType {
	case models.ActionDailyLogin:
		return "Already logged in today"
	case models.ActionRecipeCooked:
		return "You have already marked this recipe as cooked"
	default:
		return "Action already performed"
	}
}

// Track records one qualifying event for a user and returns the composite
// result. Unknown action kinds are not an error — they reward 0 XP and the
// pipeline continues.
func (t *ActionTracker) Track(userID, actionType string, recipeID *string, flags RewardFlags, meta models.ActionMetadata) *TrackResult {
	key := dedupeKey(userID, actionType, recipeID)

	// Friendly pre-check; the unique index on dedupe_key is what actually
	// closes the read-then-write race between concurrent requests.
	if key != nil {
		var count int64
		t.DB.Model(&models.UserAction{}).Where("dedupe_key = ?", key).Count(&count)
		if count > 0 {
			return &TrackResult{
				Success:   true,
				Performed: false,
				Message:   alreadyPerformedMessage(actionType),
			}
		}
	}

	xp := t.Engine.RewardFor(actionType, flags)

	var user models.User
	var oldXP int64

	err := t.DB.Transaction(func(tx *gorm.DB) error {
		// Single-statement increment so a concurrent award of a different
		// kind for the same user cannot lose this one.
		res := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("xp", gorm.Expr("xp + ?", xp))
		if res.Error != nil {
			return fmt.Errorf("failed to apply XP: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %s not found", userID)
		}

		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return fmt.Errorf("user %s not found: %w", userID, err)
		}
		oldXP = user.XP - xp

		newLevel := t.Engine.LevelForXP(user.XP)
		if newLevel != user.Level {
			updates := map[string]interface{}{"level": newLevel}
			if newLevel > user.Level {
				now := time.Now()
				updates["last_level_up_at"] = now
				user.LastLevelUpAt = &now
			}
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to save user level: %w", err)
			}
			user.Level = newLevel
		}

		action := models.UserAction{
			ID:         uuid.NewString(),
			UserID:     userID,
			ActionType: actionType,
			RecipeID:   recipeID,
			XPAwarded:  xp,
			Metadata:   meta,
			DedupeKey:  key,
		}
		if err := tx.Create(&action).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyPerformed
			}
			return fmt.Errorf("failed to create action record: %w", err)
		}
		return nil
	})
	if errors.Is(err, errAlreadyPerformed) {
		return &TrackResult{
			Success:   true,
			Performed: false,
			Message:   alreadyPerformedMessage(actionType),
		}
	}
	if err != nil {
		return &TrackResult{
			Success: false,
			Message: fmt.Sprintf("Error tracking action: %v", err),
		}
	}

	levelUp := t.Engine.DetectLevelUp(oldXP, user.XP)
	if levelUp != nil {
		_ = t.Notifier.NotifyLevelUp(&user, levelUp.NewLevel)
	}

	// Badge sweep is best-effort: a failure here never rolls back the award.
	newBadges, badgeErr := t.Badges.CheckAndAward(userID)
	if badgeErr != nil {
		log.Printf("[TRACKER] badge sweep failed for %s after %s: %v", userID, actionType, badgeErr)
	}

	return &TrackResult{
		Success:   true,
		Performed: true,
		Message:   fmt.Sprintf("Earned %d XP for %s", xp, actionType),
		XPAwarded: xp,
		NewXP:     user.XP,
		OldLevel:  t.Engine.LevelForXP(oldXP),
		NewLevel:  user.Level,
		LevelUp:   levelUp,
		NewBadges: newBadges,
	}
}

// TrackRecipeCreated awards creation XP, with the one-time first-recipe
// bonus when the user has no prior creation on record.
func (t *ActionTracker) TrackRecipeCreated(userID, recipeID string) *TrackResult {
	var previous int64
	t.DB.Model(&models.UserAction{}).
		Where("user_id = ? AND action_type IN ?", userID, []string{models.ActionRecipeCreated, models.ActionFirstRecipe}).
		Count(&previous)

	actionType := models.ActionRecipeCreated
	isFirst := previous == 0
	if isFirst {
		actionType = models.ActionFirstRecipe
	}
	return t.Track(userID, actionType, &recipeID, RewardFlags{}, models.ActionMetadata{IsFirst: isFirst})
}

// TrackRecipeCooked awards cooking XP plus the photo/rating bonuses.
func (t *ActionTracker) TrackRecipeCooked(userID, recipeID string, hasPhoto, hasRating bool) *TrackResult {
	flags := RewardFlags{HasPhoto: hasPhoto, HasRating: hasRating}
	meta := models.ActionMetadata{HasPhoto: hasPhoto, HasRating: hasRating}
	return t.Track(userID, models.ActionRecipeCooked, &recipeID, flags, meta)
}

func (t *ActionTracker) TrackCommentPosted(userID, recipeID string) *TrackResult {
	return t.Track(userID, models.ActionCommentPosted, &recipeID, RewardFlags{}, models.ActionMetadata{})
}

func (t *ActionTracker) TrackRecipeLiked(userID, recipeID string) *TrackResult {
	return t.Track(userID, models.ActionRecipeLiked, &recipeID, RewardFlags{}, models.ActionMetadata{})
}

func (t *ActionTracker) TrackUserFollowed(userID, followedUserID string) *TrackResult {
	return t.Track(userID, models.ActionUserFollowed, nil, RewardFlags{}, models.ActionMetadata{FollowedUserID: followedUserID})
}

// TrackDailyLogin awards login XP at most once per calendar day.
func (t *ActionTracker) TrackDailyLogin(userID string) *TrackResult {
	return t.Track(userID, models.ActionDailyLogin, nil, RewardFlags{}, models.ActionMetadata{})
}

// GetUserActions returns a user's recent actions, newest first, optionally
// filtered by kind.
func (t *ActionTracker) GetUserActions(userID, actionType string, limit int) ([]models.UserAction, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	q := t.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit)
	if actionType != "" {
		q = q.Where("action_type = ?", actionType)
	}
	var actions []models.UserAction
	err := q.Preload("Recipe").Find(&actions).Error
	return actions, err
}

// ActionTypeStats aggregates one action kind.
type ActionTypeStats struct {
	Count    int64 `json:"count"`
	XPEarned int64 `json:"xp_earned"`
}

// ActionStats is the per-user activity summary.
type ActionStats struct {
	TotalActions  int64                      `json:"total_actions"`
	TotalXPEarned int64                      `json:"total_xp_earned"`
	ByType        map[string]ActionTypeStats `json:"by_type"`
}

// GetActionStats aggregates a user's action history by kind.
func (t *ActionTracker) GetActionStats(userID string) (*ActionStats, error) {
	type row struct {
		ActionType string
		Count      int64
		XP         int64
	}
	var rows []row
	err := t.DB.Model(&models.UserAction{}).
		Select("action_type, COUNT(*) AS count, COALESCE(SUM(xp_awarded), 0) AS xp").
		Where("user_id = ?", userID).
		Group("action_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &ActionStats{ByType: make(map[string]ActionTypeStats)}
	for _, r := range rows {
		stats.TotalActions += r.Count
		stats.TotalXPEarned += r.XP
		stats.ByType[r.ActionType] = ActionTypeStats{Count: r.Count, XPEarned: r.XP}
	}
	return stats, nil
}

// GetFollowedActivity returns recent actions by the users someone follows,
// newest first, with the acting user attached.
func (t *ActionTracker) GetFollowedActivity(userID string, limit int) ([]models.UserAction, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var actions []models.UserAction
	err := t.DB.
		Joins("JOIN follows ON follows.following_id = user_actions.user_id").
		Where("follows.follower_id = ?", userID).
		Order("user_actions.created_at DESC").
		Limit(limit).
		Preload("User").
		Preload("Recipe").
		Find(&actions).Error
	return actions, err
}

// GetRecentActivity returns actions from the last N days.
func (t *ActionTracker) GetRecentActivity(userID string, days, limit int) ([]models.UserAction, error) {
	if days < 1 {
		days = 7
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	var actions []models.UserAction
	err := t.DB.Where("user_id = ? AND created_at >= ?", userID, cutoff).
		Order("created_at DESC").
		Limit(limit).
		Preload("Recipe").
		Find(&actions).Error
	return actions, err
}
