package models

import (
	"time"
)

// Notification kinds
const (
	NotifyNewFollower   = "new_follower"
	NotifyRecipeComment = "recipe_comment"
	NotifyCommentLike   = "comment_like"
	NotifyRecipeLike    = "recipe_like"
	NotifyBadgeEarned   = "badge_earned"
	NotifyLevelUp       = "level_up"
	NotifyRecipeCooked  = "recipe_cooked"
)

// Notification is a best-effort in-app alert. Delivery never blocks or fails
// the operation that triggered it.
type Notification struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	RecipientID string  `gorm:"not null;index;index:idx_notif_recipient_created,priority:1" json:"recipient_id"`
	SenderID    *string `json:"sender_id,omitempty"` // nil for system notifications
	Type        string  `gorm:"type:varchar(32);not null" json:"type"`
	Title       string  `gorm:"not null" json:"title"`
	Message     string  `gorm:"not null" json:"message"`

	RelatedType string `gorm:"type:varchar(16)" json:"related_type,omitempty"` // recipe, comment, user, badge
	RelatedID   string `json:"related_id,omitempty"`

	IsRead bool       `json:"is_read" gorm:"default:false;index"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_notif_recipient_created,priority:2,sort:desc"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}
