package services

import (
	"fmt"
	"log"
	"time"

	"recipe-share-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationService creates and lists in-app notifications. Every Notify*
// helper is best-effort: callers fire-and-forget, and a failed insert is
// logged, never propagated.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

func (s *NotificationService) create(n models.Notification) error {
	n.ID = uuid.NewString()
	if err := s.DB.Create(&n).Error; err != nil {
		log.Printf("[NOTIFY] failed to create %s notification for %s: %v", n.Type, n.RecipientID, err)
		return err
	}
	return nil
}

// NotifyBadgeEarned tells a user they unlocked a badge.
func (s *NotificationService) NotifyBadgeEarned(user *models.User, badge *models.Badge) error {
	return s.create(models.Notification{
		RecipientID: user.ID,
		Type:        models.NotifyBadgeEarned,
		Title:       "New badge earned!",
		Message:     fmt.Sprintf("Congratulations! You earned the %q badge", badge.Name),
		RelatedType: "badge",
		RelatedID:   badge.ID,
	})
}

// NotifyLevelUp tells a user they reached a new level.
func (s *NotificationService) NotifyLevelUp(user *models.User, newLevel int) error {
	return s.create(models.Notification{
		RecipientID: user.ID,
		Type:        models.NotifyLevelUp,
		Title:       "Level Up!",
		Message:     fmt.Sprintf("Congratulations! You reached Level %d", newLevel),
		RelatedType: "user",
		RelatedID:   user.ID,
	})
}

// NotifyNewFollower tells a user someone followed them.
func (s *NotificationService) NotifyNewFollower(followed *models.User, follower *models.User) error {
	return s.create(models.Notification{
		RecipientID: followed.ID,
		SenderID:    &follower.ID,
		Type:        models.NotifyNewFollower,
		Title:       "New follower",
		Message:     fmt.Sprintf("%s started following you", follower.Username),
		RelatedType: "user",
		RelatedID:   follower.ID,
	})
}

// NotifyRecipeComment tells a recipe author about a new comment.
// Self-comments are ignored.
func (s *NotificationService) NotifyRecipeComment(authorID string, commenter *models.User, recipe *models.Recipe, commentID string) error {
	if authorID == commenter.ID {
		return nil
	}
	return s.create(models.Notification{
		RecipientID: authorID,
		SenderID:    &commenter.ID,
		Type:        models.NotifyRecipeComment,
		Title:       "New comment on your recipe",
		Message:     fmt.Sprintf("%s commented on %q", commenter.Username, recipe.Title),
		RelatedType: "recipe",
		RelatedID:   recipe.ID,
	})
}

// NotifyCommentLike tells a comment author someone liked their comment.
func (s *NotificationService) NotifyCommentLike(commentAuthorID string, liker *models.User, commentID string) error {
	if commentAuthorID == liker.ID {
		return nil
	}
	return s.create(models.Notification{
		RecipientID: commentAuthorID,
		SenderID:    &liker.ID,
		Type:        models.NotifyCommentLike,
		Title:       "Someone liked your comment",
		Message:     fmt.Sprintf("%s liked your comment", liker.Username),
		RelatedType: "comment",
		RelatedID:   commentID,
	})
}

// NotifyRecipeCooked tells a recipe author their recipe was cooked.
func (s *NotificationService) NotifyRecipeCooked(authorID string, cook *models.User, recipe *models.Recipe) error {
	if authorID == cook.ID {
		return nil
	}
	return s.create(models.Notification{
		RecipientID: authorID,
		SenderID:    &cook.ID,
		Type:        models.NotifyRecipeCooked,
		Title:       "Someone cooked your recipe!",
		Message:     fmt.Sprintf("%s cooked %q", cook.Username, recipe.Title),
		RelatedType: "recipe",
		RelatedID:   recipe.ID,
	})
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	q := s.DB.Where("recipient_id = ?", userID).Order("created_at DESC").Limit(limit)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var notifications []models.Notification
	err := q.Preload("Sender").Find(&notifications).Error
	return notifications, err
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(userID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks a single notification read; the recipient filter prevents
// marking someone else's.
func (s *NotificationService) MarkRead(userID, notificationID string) error {
	now := time.Now()
	res := s.DB.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for the user read.
func (s *NotificationService) MarkAllRead(userID string) (int64, error) {
	now := time.Now()
	res := s.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return res.RowsAffected, res.Error
}
