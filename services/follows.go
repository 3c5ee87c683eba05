package services

import (
	"errors"
	"fmt"

	"recipe-share-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FollowService manages the directed follow edges between users.
type FollowService struct {
	DB       *gorm.DB
	Tracker  *ActionTracker
	Notifier *NotificationService
}

func NewFollowService(db *gorm.DB, tracker *ActionTracker, notifier *NotificationService) *FollowService {
	return &FollowService{DB: db, Tracker: tracker, Notifier: notifier}
}

// Follow creates the edge follower → followed, awards the follower XP and
// notifies the followed user. Following yourself or re-following is
// rejected as a business outcome, not a server error.
func (s *FollowService) Follow(followerID, followedID string) (*TrackResult, error) {
	if followerID == followedID {
		return nil, errors.New("cannot follow yourself")
	}

	var followed models.User
	if err := s.DB.Where("id = ?", followedID).First(&followed).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	edge := models.Follow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: followedID,
	}
	if err := s.DB.Create(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("already following this user")
		}
		return nil, err
	}

	result := s.Tracker.TrackUserFollowed(followerID, followedID)

	var follower models.User
	if err := s.DB.Where("id = ?", followerID).First(&follower).Error; err == nil {
		_ = s.Notifier.NotifyNewFollower(&followed, &follower)
	}

	// The followed user may have crossed a follower-count badge threshold.
	_, _ = s.Tracker.Badges.CheckAndAward(followedID)

	return result, nil
}

// Unfollow removes the edge; the follow XP is not clawed back.
func (s *FollowService) Unfollow(followerID, followedID string) error {
	res := s.DB.Where("follower_id = ? AND following_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("not following this user")
	}
	return nil
}

// Followers lists the users following userID.
func (s *FollowService) Followers(userID string, limit int) ([]models.User, int64, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var total int64
	if err := s.DB.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.DB.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

// Following lists the users userID follows.
func (s *FollowService) Following(userID string, limit int) ([]models.User, int64, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var total int64
	if err := s.DB.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.DB.
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

// IsFollowing reports whether the edge exists.
func (s *FollowService) IsFollowing(followerID, followedID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}
