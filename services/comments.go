package services

import (
	"errors"
	"fmt"
	"strings"

	"recipe-share-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentService owns recipe comments and comment likes.
type CommentService struct {
	DB       *gorm.DB
	Tracker  *ActionTracker
	Notifier *NotificationService
}

func NewCommentService(db *gorm.DB, tracker *ActionTracker, notifier *NotificationService) *CommentService {
	return &CommentService{DB: db, Tracker: tracker, Notifier: notifier}
}

// Post creates a comment on a published recipe, awards the commenter XP and
// notifies the recipe author.
func (s *CommentService) Post(userID, recipeSlug, content string) (*models.Comment, *TrackResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, errors.New("comment content is required")
	}

	var recipe models.Recipe
	if err := s.DB.Where("slug = ? AND status = ?", recipeSlug, models.RecipeStatusPublished).First(&recipe).Error; err != nil {
		return nil, nil, fmt.Errorf("recipe not found: %w", err)
	}

	comment := models.Comment{
		ID:       uuid.NewString(),
		UserID:   userID,
		RecipeID: recipe.ID,
		Content:  content,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create comment: %w", err)
	}

	result := s.Tracker.TrackCommentPosted(userID, recipe.ID)

	var commenter models.User
	if err := s.DB.Where("id = ?", userID).First(&commenter).Error; err == nil {
		_ = s.Notifier.NotifyRecipeComment(recipe.AuthorID, &commenter, &recipe, comment.ID)
	}

	return &comment, result, nil
}

// List returns a recipe's comments, newest first.
func (s *CommentService) List(recipeSlug string, page, limit int) ([]models.Comment, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var recipe models.Recipe
	if err := s.DB.Where("slug = ?", recipeSlug).First(&recipe).Error; err != nil {
		return nil, 0, fmt.Errorf("recipe not found: %w", err)
	}

	var total int64
	if err := s.DB.Model(&models.Comment{}).Where("recipe_id = ?", recipe.ID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := s.DB.Where("recipe_id = ?", recipe.ID).
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Preload("User").
		Find(&comments).Error
	return comments, total, err
}

// Edit updates a user's own comment.
func (s *CommentService) Edit(userID, commentID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("comment content is required")
	}

	var comment models.Comment
	if err := s.DB.Where("id = ? AND user_id = ?", commentID, userID).First(&comment).Error; err != nil {
		return nil, fmt.Errorf("comment not found: %w", err)
	}

	comment.Content = content
	comment.IsEdited = true
	if err := s.DB.Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Like records one like per (user, comment) and notifies the comment
// author. Repeat likes are a no-op.
func (s *CommentService) Like(userID, commentID string) (bool, error) {
	var comment models.Comment
	if err := s.DB.Where("id = ?", commentID).First(&comment).Error; err != nil {
		return false, fmt.Errorf("comment not found: %w", err)
	}

	like := models.CommentLike{
		ID:        uuid.NewString(),
		UserID:    userID,
		CommentID: commentID,
	}
	if err := s.DB.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}

	if err := s.DB.Model(&comment).Update("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
		return false, err
	}

	var liker models.User
	if err := s.DB.Where("id = ?", userID).First(&liker).Error; err == nil {
		_ = s.Notifier.NotifyCommentLike(comment.UserID, &liker, comment.ID)
	}
	return true, nil
}
