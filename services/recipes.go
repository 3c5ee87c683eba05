package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-share-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// RecipeService owns recipe CRUD plus the engagement flows (cook, like,
// feature) that feed the gamification core.
type RecipeService struct {
	DB       *gorm.DB
	Tracker  *ActionTracker
	Badges   *BadgeService
	Notifier *NotificationService
}

func NewRecipeService(db *gorm.DB, tracker *ActionTracker, badges *BadgeService, notifier *NotificationService) *RecipeService {
	return &RecipeService{DB: db, Tracker: tracker, Badges: badges, Notifier: notifier}
}

// CreateRecipeInput is the payload for a new recipe.
type CreateRecipeInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Ingredients string     `json:"ingredients"`
	Steps       string     `json:"steps"`
	CoverURL    string     `json:"cover_url"`
	Cuisine     string     `json:"cuisine"`
	Tags        string     `json:"tags"`
	PublishAt   *time.Time `json:"publish_at,omitempty"`
}

// Create publishes a recipe for the author and awards the creation XP
// (first-recipe bonus applies on the author's first one). When PublishAt is
// set, the recipe stays scheduled and the XP is awarded by the publish
// scheduler instead.
func (s *RecipeService) Create(authorID string, input CreateRecipeInput) (*models.Recipe, *TrackResult, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, nil, errors.New("title is required")
	}

	status := models.RecipeStatusPublished
	if input.PublishAt != nil && input.PublishAt.After(time.Now()) {
		status = models.RecipeStatusScheduled
	}

	recipe := models.Recipe{
		ID:          uuid.NewString(),
		AuthorID:    authorID,
		Title:       input.Title,
		Slug:        s.uniqueSlug(input.Title),
		Description: input.Description,
		Ingredients: input.Ingredients,
		Steps:       input.Steps,
		CoverURL:    input.CoverURL,
		Cuisine:     input.Cuisine,
		Tags:        input.Tags,
		Status:      status,
		PublishAt:   input.PublishAt,
	}
	if err := s.DB.Create(&recipe).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	var result *TrackResult
	if status == models.RecipeStatusPublished {
		result = s.Tracker.TrackRecipeCreated(authorID, recipe.ID)
	}
	return &recipe, result, nil
}

// uniqueSlug derives a URL slug from the title, suffixing a short uuid
// fragment on collision.
func (s *RecipeService) uniqueSlug(title string) string {
	base := slug.Make(title)
	var count int64
	s.DB.Model(&models.Recipe{}).Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
}

// GetBySlug returns one published recipe.
func (s *RecipeService) GetBySlug(slugStr string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.DB.Where("slug = ? AND status = ?", slugStr, models.RecipeStatusPublished).
		Preload("Author").
		First(&recipe).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns published recipes, newest first, with optional author filter.
func (s *RecipeService) List(authorID string, page, limit int) ([]models.Recipe, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := s.DB.Model(&models.Recipe{}).Where("status = ?", models.RecipeStatusPublished)
	if authorID != "" {
		q = q.Where("author_id = ?", authorID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := q.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Preload("Author").
		Find(&recipes).Error
	return recipes, total, err
}

// Search returns published recipes matching the query against title,
// description, tags or cuisine, newest first.
func (s *RecipeService) Search(query string, page, limit int) ([]models.Recipe, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, errors.New("search query is required")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	pattern := "%" + strings.ToLower(query) + "%"
	q := s.DB.Model(&models.Recipe{}).
		Where("status = ?", models.RecipeStatusPublished).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ? OR LOWER(cuisine) LIKE ?",
			pattern, pattern, pattern, pattern)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := q.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Preload("Author").
		Find(&recipes).Error
	return recipes, total, err
}

// Save bookmarks a recipe for the user. Returns false when it was already
// saved; repeat saves are a no-op, not an error.
func (s *RecipeService) Save(userID, slugStr string) (bool, error) {
	recipe, err := s.GetBySlug(slugStr)
	if err != nil {
		return false, err
	}

	saved := models.SavedRecipe{
		ID:       uuid.NewString(),
		UserID:   userID,
		RecipeID: recipe.ID,
	}
	if err := s.DB.Create(&saved).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Unsave removes a bookmark.
func (s *RecipeService) Unsave(userID, slugStr string) error {
	recipe, err := s.GetBySlug(slugStr)
	if err != nil {
		return err
	}

	res := s.DB.Where("user_id = ? AND recipe_id = ?", userID, recipe.ID).
		Delete(&models.SavedRecipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("recipe is not saved")
	}
	return nil
}

// SavedList returns a user's bookmarked recipes, newest first.
func (s *RecipeService) SavedList(userID string, limit int) ([]models.SavedRecipe, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var saved []models.SavedRecipe
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Preload("Recipe").
		Find(&saved).Error
	return saved, err
}

// MarkCookedInput carries the optional extras for a cook.
type MarkCookedInput struct {
	PhotoURL *string  `json:"photo_url"`
	Rating   *float64 `json:"rating"`
	Notes    *string  `json:"notes"`
}

// MarkCookedResult is the composite response for the mark-cooked flow.
type MarkCookedResult struct {
	Cooked  *models.CookedRecipe `json:"cooked_recipe"`
	Track   *TrackResult         `json:"xp_result"`
	Recipe  *models.Recipe       `json:"recipe"`
	Message string               `json:"message"`
}

// ErrAlreadyCooked marks the defined business outcome for a repeat cook.
var ErrAlreadyCooked = errors.New("recipe already marked as cooked")

// MarkCooked records that a user cooked a recipe: the cooked record (one per
// user/recipe pair, enforced by unique index), the cook counter, the
// recipe's aggregate rating, the XP award with photo/rating bonuses, the
// badge sweep and the author notification.
func (s *RecipeService) MarkCooked(userID, slugStr string, input MarkCookedInput) (*MarkCookedResult, error) {
	if input.Rating != nil && (*input.Rating < 1.0 || *input.Rating > 5.0) {
		return nil, errors.New("rating must be between 1.0 and 5.0")
	}

	recipe, err := s.GetBySlug(slugStr)
	if err != nil {
		return nil, err
	}

	var existing int64
	s.DB.Model(&models.CookedRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipe.ID).
		Count(&existing)
	if existing > 0 {
		return nil, ErrAlreadyCooked
	}

	cooked := models.CookedRecipe{
		ID:       uuid.NewString(),
		UserID:   userID,
		RecipeID: recipe.ID,
		PhotoURL: input.PhotoURL,
		Rating:   input.Rating,
		Notes:    input.Notes,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cooked).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCooked
			}
			return fmt.Errorf("failed to create cooked record: %w", err)
		}

		recipe.CookCount++
		if input.Rating != nil {
			recipe.RatingCount++
			recipe.RatingTotal += *input.Rating
			recipe.RatingAverage = recipe.RatingTotal / float64(recipe.RatingCount)
		}
		if err := tx.Save(recipe).Error; err != nil {
			return fmt.Errorf("failed to update recipe counters: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	trackResult := s.Tracker.TrackRecipeCooked(userID, recipe.ID, input.PhotoURL != nil, input.Rating != nil)

	var cook models.User
	if err := s.DB.Where("id = ?", userID).First(&cook).Error; err == nil {
		_ = s.Notifier.NotifyRecipeCooked(recipe.AuthorID, &cook, recipe)
	}

	return &MarkCookedResult{
		Cooked:  &cooked,
		Track:   trackResult,
		Recipe:  recipe,
		Message: "Recipe marked as cooked!",
	}, nil
}

// CookedList returns a user's cooked recipes, newest first.
func (s *RecipeService) CookedList(userID string, limit int) ([]models.CookedRecipe, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var cooked []models.CookedRecipe
	err := s.DB.Where("user_id = ?", userID).
		Order("cooked_at DESC").
		Limit(limit).
		Preload("Recipe").
		Find(&cooked).Error
	return cooked, err
}

// Like records one like per (user, recipe), bumps the counter and awards XP
// to the liker. Repeat likes are a no-op business outcome.
func (s *RecipeService) Like(userID, slugStr string) (*models.Recipe, bool, error) {
	recipe, err := s.GetBySlug(slugStr)
	if err != nil {
		return nil, false, err
	}

	like := models.RecipeLike{
		ID:       uuid.NewString(),
		UserID:   userID,
		RecipeID: recipe.ID,
	}
	if err := s.DB.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return recipe, false, nil
		}
		return nil, false, err
	}

	if err := s.DB.Model(recipe).Update("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
		return nil, false, err
	}
	recipe.LikesCount++

	_ = s.Tracker.TrackRecipeLiked(userID, recipe.ID)
	return recipe, true, nil
}

// Feature marks a recipe featured (admin) and awards the author the
// featured-recipe XP once.
func (s *RecipeService) Feature(slugStr string) (*models.Recipe, *TrackResult, error) {
	recipe, err := s.GetBySlug(slugStr)
	if err != nil {
		return nil, nil, err
	}
	if recipe.IsFeatured {
		return recipe, nil, nil
	}

	if err := s.DB.Model(recipe).Update("is_featured", true).Error; err != nil {
		return nil, nil, err
	}
	recipe.IsFeatured = true

	result := s.Tracker.Track(recipe.AuthorID, models.ActionRecipeFeatured, &recipe.ID, RewardFlags{}, models.ActionMetadata{})
	return recipe, result, nil
}
