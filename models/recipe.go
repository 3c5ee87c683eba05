package models

import (
	"time"
)

// Recipe statuses
const (
	RecipeStatusDraft     = "draft"
	RecipeStatusScheduled = "scheduled"
	RecipeStatusPublished = "published"
)

// Recipe is a published dish with denormalized engagement counters.
// RatingCount/RatingTotal/RatingAverage aggregate the ratings left when
// users mark the recipe cooked.
type Recipe struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	AuthorID    string `gorm:"not null;index" json:"author_id"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Ingredients string `gorm:"type:text" json:"ingredients"`
	Steps       string `gorm:"type:text" json:"steps"`
	CoverURL    string `json:"cover_url"`
	Cuisine     string `json:"cuisine"`
	Tags        string `json:"tags"`

	Status     string     `json:"status" gorm:"default:'published';index"`
	PublishAt  *time.Time `json:"publish_at,omitempty"`
	IsFeatured bool       `json:"is_featured" gorm:"default:false"`

	// Engagement counters
	LikesCount    int64   `json:"likes_count" gorm:"default:0"`
	CookCount     int64   `json:"cook_count" gorm:"default:0"`
	RatingCount   int64   `json:"rating_count" gorm:"default:0"`
	RatingTotal   float64 `json:"-" gorm:"default:0"`
	RatingAverage float64 `json:"rating_average" gorm:"default:0"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`

	Timestamps
}

// RecipeLike: one like per (user, recipe)
type RecipeLike struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_recipe_like" json:"user_id"`
	RecipeID  string    `gorm:"not null;uniqueIndex:idx_recipe_like" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// SavedRecipe: bookmark, one per (user, recipe). No XP attached — saving is
// a private action, not a qualifying event.
type SavedRecipe struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_saved_once" json:"user_id"`
	RecipeID  string    `gorm:"not null;uniqueIndex:idx_saved_once" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Recipe Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID"`
}

// CookedRecipe records that a user cooked a recipe, with optional photo,
// rating (1.0–5.0) and note. At most one row per (user, recipe) — enforced
// by the composite unique index, not just the pre-check in the service.
type CookedRecipe struct {
	ID       string   `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string   `gorm:"not null;uniqueIndex:idx_cooked_once" json:"user_id"`
	RecipeID string   `gorm:"not null;uniqueIndex:idx_cooked_once" json:"recipe_id"`
	PhotoURL *string  `json:"photo_url,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Notes    *string  `json:"notes,omitempty"`

	CookedAt time.Time `json:"cooked_at" gorm:"autoCreateTime;index:,sort:desc"`

	Recipe Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID"`
}
