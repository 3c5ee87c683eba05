package models

import (
	"time"
)

// Badge criteria kinds
const (
	CriteriaRecipesCreated = "recipes_created"
	CriteriaRecipesCooked  = "recipes_cooked"
	CriteriaTotalXP        = "total_xp"
	CriteriaLevelReached   = "level_reached"
	CriteriaFollowers      = "followers"
	CriteriaLikesReceived  = "likes_received"
	CriteriaCommentsPosted = "comments_posted"
	CriteriaSpecial        = "special" // manually awarded, never by the sweep
)

// Badge: catalog entry. Read-mostly — seeded once, rarely mutated.
type Badge struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	Name          string `gorm:"uniqueIndex;not null" json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	CriteriaType  string `gorm:"type:varchar(32);not null;index" json:"criteria_type"`
	CriteriaValue int64  `gorm:"not null" json:"criteria_value"`
	Rarity        string `gorm:"type:varchar(16);default:'common';index" json:"rarity"` // common, rare, epic, legendary
	XPReward      int64  `gorm:"default:0" json:"xp_reward"`
	IsActive      bool   `gorm:"default:true" json:"-"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// UserBadge: awarded instance. Append-only in normal operation — a badge,
// once earned, is never removed.
type UserBadge struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_user_badge_once" json:"user_id"`
	BadgeID   string    `gorm:"not null;uniqueIndex:idx_user_badge_once" json:"badge_id"`
	AwardedAt time.Time `json:"awarded_at" gorm:"autoCreateTime"`

	Badge Badge `json:"badge" gorm:"foreignKey:BadgeID"`
}

// DefaultBadges seeds the catalog on first boot.
var DefaultBadges = []Badge{
	// Recipe creation
	{Name: "First Recipe", Description: "Create your first recipe", Icon: "📝", CriteriaType: CriteriaRecipesCreated, CriteriaValue: 1, Rarity: "common", XPReward: 10},
	{Name: "Recipe Author", Description: "Create 5 recipes", Icon: "✍️", CriteriaType: CriteriaRecipesCreated, CriteriaValue: 5, Rarity: "common", XPReward: 25},
	{Name: "Prolific Creator", Description: "Create 10 recipes", Icon: "📚", CriteriaType: CriteriaRecipesCreated, CriteriaValue: 10, Rarity: "rare", XPReward: 50},
	{Name: "Recipe Master", Description: "Create 25 recipes", Icon: "⭐", CriteriaType: CriteriaRecipesCreated, CriteriaValue: 25, Rarity: "epic", XPReward: 100},

	// Cooking
	{Name: "First Cook", Description: "Cook your first recipe", Icon: "🍳", CriteriaType: CriteriaRecipesCooked, CriteriaValue: 1, Rarity: "common", XPReward: 10},
	{Name: "Chef Apprentice", Description: "Cook 10 recipes", Icon: "👨‍🍳", CriteriaType: CriteriaRecipesCooked, CriteriaValue: 10, Rarity: "rare", XPReward: 50},
	{Name: "Master Chef", Description: "Cook 50 recipes", Icon: "🏆", CriteriaType: CriteriaRecipesCooked, CriteriaValue: 50, Rarity: "epic", XPReward: 150},
	{Name: "Culinary Legend", Description: "Cook 100 recipes", Icon: "👑", CriteriaType: CriteriaRecipesCooked, CriteriaValue: 100, Rarity: "legendary", XPReward: 300},

	// XP milestones
	{Name: "Rising Star", Description: "Reach 500 XP", Icon: "✨", CriteriaType: CriteriaTotalXP, CriteriaValue: 500, Rarity: "rare", XPReward: 25},
	{Name: "XP Champion", Description: "Reach 2000 XP", Icon: "💫", CriteriaType: CriteriaTotalXP, CriteriaValue: 2000, Rarity: "epic", XPReward: 100},

	// Levels
	{Name: "Level 5 Achieved", Description: "Reach Level 5", Icon: "🎖️", CriteriaType: CriteriaLevelReached, CriteriaValue: 5, Rarity: "rare", XPReward: 50},
	{Name: "Level 10 Achieved", Description: "Reach Level 10", Icon: "🏅", CriteriaType: CriteriaLevelReached, CriteriaValue: 10, Rarity: "epic", XPReward: 100},

	// Social
	{Name: "Social Butterfly", Description: "Get 50 followers", Icon: "🦋", CriteriaType: CriteriaFollowers, CriteriaValue: 50, Rarity: "epic", XPReward: 75},
	{Name: "Community Favorite", Description: "Receive 100 likes on your recipes", Icon: "❤️", CriteriaType: CriteriaLikesReceived, CriteriaValue: 100, Rarity: "epic", XPReward: 100},
	{Name: "Conversationalist", Description: "Post 50 comments", Icon: "💬", CriteriaType: CriteriaCommentsPosted, CriteriaValue: 50, Rarity: "rare", XPReward: 50},

	// Special — admin awarded only
	{Name: "Early Adopter", Description: "Join during the first month", Icon: "🎉", CriteriaType: CriteriaSpecial, CriteriaValue: 1, Rarity: "legendary", XPReward: 200},
	{Name: "Beta Tester", Description: "Help test the platform", Icon: "🧪", CriteriaType: CriteriaSpecial, CriteriaValue: 1, Rarity: "legendary", XPReward: 150},
}
