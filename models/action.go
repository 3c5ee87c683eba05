package models

import (
	"time"
)

// Action types — the closed set of XP-awarding events.
const (
	ActionRecipeCreated  = "recipe_created"
	ActionRecipeCooked   = "recipe_cooked"
	ActionPhotoUploaded  = "photo_uploaded"
	ActionRecipeRated    = "recipe_rated"
	ActionCommentPosted  = "comment_posted"
	ActionRecipeLiked    = "recipe_liked"
	ActionUserFollowed   = "user_followed"
	ActionDailyLogin     = "daily_login"
	ActionFirstRecipe    = "first_recipe"
	ActionRecipeFeatured = "recipe_featured"
	ActionBadgeEarned    = "badge_earned"
)

// ActionMetadata is the per-kind key/value bag snapshotted onto an action
// record. Fields are optional; only the ones relevant to the kind are set.
type ActionMetadata struct {
	HasPhoto       bool   `json:"has_photo,omitempty"`
	HasRating      bool   `json:"has_rating,omitempty"`
	IsFirst        bool   `json:"is_first,omitempty"`
	FollowedUserID string `json:"followed_user_id,omitempty"`
	BadgeID        string `json:"badge_id,omitempty"`
}

// UserAction is an immutable log entry for one XP-awarding event. Rows are
// created once and never updated or deleted; XPAwarded is fixed at creation
// time even if the reward table changes later.
//
// DedupeKey backs the idempotence gate for inherently singular actions
// (daily login per calendar day, one cook per recipe). It is NULL for
// repeatable kinds so the unique index only bites where it should.
type UserAction struct {
	ID         string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string         `gorm:"not null;index;index:idx_actions_user_created,priority:1" json:"user_id"`
	ActionType string         `gorm:"not null;index" json:"action_type"`
	RecipeID   *string        `json:"recipe_id,omitempty"`
	XPAwarded  int64          `json:"xp_awarded" gorm:"default:0"`
	Metadata   ActionMetadata `json:"metadata" gorm:"serializer:json"`
	DedupeKey  *string        `gorm:"uniqueIndex" json:"-"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index:,sort:desc;index:idx_actions_user_created,priority:2,sort:desc"`

	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Recipe *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID"`
}
