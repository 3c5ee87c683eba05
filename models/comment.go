package models

import (
	"time"
)

// Comment on a recipe.
type Comment struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string `gorm:"not null;index" json:"user_id"`
	RecipeID string `gorm:"not null;index:idx_comments_recipe_created,priority:1" json:"recipe_id"`
	Content  string `gorm:"type:text;not null" json:"content"`

	LikesCount int64 `json:"likes_count" gorm:"default:0"`
	IsEdited   bool  `json:"is_edited" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_comments_recipe_created,priority:2,sort:desc"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	User   User   `json:"author,omitempty" gorm:"foreignKey:UserID"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID"`
}

// CommentLike: one like per (user, comment)
type CommentLike struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_comment_like" json:"user_id"`
	CommentID string    `gorm:"not null;uniqueIndex:idx_comment_like" json:"comment_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
