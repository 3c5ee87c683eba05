package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"recipe-share-system/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const leaderboardCacheTTL = 5 * time.Minute

// LeaderboardService ranks users by XP, recipes created or recipes cooked.
// Pages are cached in Redis with a short TTL; a nil Redis client degrades to
// direct queries.
type LeaderboardService struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, Redis: rdb}
}

// LeaderboardUser is the public slice of a ranked user.
type LeaderboardUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Level    int    `json:"level"`
	XP       int64  `json:"xp"`
}

// LeaderboardEntry is one ranked row with activity stats. XPGained is only
// set on windowed boards, where it is the ranking value for the xp board.
type LeaderboardEntry struct {
	Rank           int             `json:"rank"`
	User           LeaderboardUser `json:"user"`
	RecipesCreated int64           `json:"recipes_created"`
	RecipesCooked  int64           `json:"recipes_cooked"`
	XPGained       int64           `json:"xp_gained,omitempty"`
}

// LeaderboardPage is one page of rankings.
type LeaderboardPage struct {
	Count      int64              `json:"count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Results    []LeaderboardEntry `json:"results"`
}

type leaderboardRow struct {
	ID             string
	Username       string
	Level          int
	XP             int64
	WindowXP       int64
	RecipesCreated int64
	RecipesCooked  int64
}

const leaderboardBaseQuery = `
SELECT u.id, u.username, u.level, u.xp,
       (SELECT COUNT(*) FROM recipes r WHERE r.author_id = u.id AND r.status = 'published' AND r.deleted_at IS NULL) AS recipes_created,
       (SELECT COUNT(*) FROM cooked_recipes c WHERE c.user_id = u.id) AS recipes_cooked
FROM users u
WHERE u.is_active = ? AND u.deleted_at IS NULL
`

// Windowed boards rank by activity since the cutoff: XP gained from the
// action log, recipes published and recipes cooked within the window.
const leaderboardWindowQuery = `
SELECT u.id, u.username, u.level, u.xp,
       (SELECT COALESCE(SUM(a.xp_awarded), 0) FROM user_actions a WHERE a.user_id = u.id AND a.created_at >= @cutoff) AS window_xp,
       (SELECT COUNT(*) FROM recipes r WHERE r.author_id = u.id AND r.status = 'published' AND r.deleted_at IS NULL AND r.created_at >= @cutoff) AS recipes_created,
       (SELECT COUNT(*) FROM cooked_recipes c WHERE c.user_id = u.id AND c.cooked_at >= @cutoff) AS recipes_cooked
FROM users u
WHERE u.is_active = @active AND u.deleted_at IS NULL
`

var leaderboardOrder = map[string]string{
	"xp":      "u.xp DESC, u.username ASC",
	"recipes": "recipes_created DESC, u.username ASC",
	"cooked":  "recipes_cooked DESC, u.username ASC",
}

var leaderboardWindowOrder = map[string]string{
	"xp":      "window_xp DESC, u.username ASC",
	"recipes": "recipes_created DESC, u.username ASC",
	"cooked":  "recipes_cooked DESC, u.username ASC",
}

var leaderboardWindows = map[string]time.Duration{
	"week":  7 * 24 * time.Hour,
	"month": 30 * 24 * time.Hour,
}

// Board returns one page of the requested board ("xp", "recipes" or
// "cooked"). Timeframe is "all" (or empty) for all-time rankings, "week" or
// "month" for rankings over activity within the window.
func (s *LeaderboardService) Board(ctx context.Context, board, timeframe string, page, limit int) (*LeaderboardPage, error) {
	if _, ok := leaderboardOrder[board]; !ok {
		return nil, fmt.Errorf("unknown leaderboard %q", board)
	}
	if timeframe == "" {
		timeframe = "all"
	}
	window, windowed := leaderboardWindows[timeframe]
	if !windowed && timeframe != "all" {
		return nil, fmt.Errorf("unknown timeframe %q", timeframe)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%s:%d:%d", board, timeframe, page, limit)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	var total int64
	if err := s.DB.Model(&models.User{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []leaderboardRow
	if windowed {
		cutoff := time.Now().Add(-window)
		query := leaderboardWindowQuery + " ORDER BY " + leaderboardWindowOrder[board] + " LIMIT @limit OFFSET @offset"
		err := s.DB.Raw(query,
			map[string]interface{}{
				"cutoff": cutoff,
				"active": true,
				"limit":  limit,
				"offset": (page - 1) * limit,
			}).Scan(&rows).Error
		if err != nil {
			return nil, err
		}
	} else {
		query := leaderboardBaseQuery + " ORDER BY " + leaderboardOrder[board] + " LIMIT ? OFFSET ?"
		if err := s.DB.Raw(query, true, limit, (page-1)*limit).Scan(&rows).Error; err != nil {
			return nil, err
		}
	}

	result := &LeaderboardPage{
		Count:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		Results:    make([]LeaderboardEntry, len(rows)),
	}
	for i, r := range rows {
		result.Results[i] = LeaderboardEntry{
			Rank: (page-1)*limit + i + 1,
			User: LeaderboardUser{
				ID:       r.ID,
				Username: r.Username,
				Level:    r.Level,
				XP:       r.XP,
			},
			RecipesCreated: r.RecipesCreated,
			RecipesCooked:  r.RecipesCooked,
			XPGained:       r.WindowXP,
		}
	}

	s.toCache(ctx, cacheKey, result)
	return result, nil
}

// UserRank returns a user's current XP rank (1-based), counting strictly
// higher totals ahead of them.
func (s *LeaderboardService) UserRank(userID string) (int64, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return 0, err
	}
	var ahead int64
	err := s.DB.Model(&models.User{}).
		Where("is_active = ? AND xp > ?", true, user.XP).
		Count(&ahead).Error
	return ahead + 1, err
}

func (s *LeaderboardService) fromCache(ctx context.Context, key string) *LeaderboardPage {
	if s.Redis == nil {
		return nil
	}
	raw, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var page LeaderboardPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil
	}
	return &page
}

func (s *LeaderboardService) toCache(ctx context.Context, key string, page *LeaderboardPage) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, raw, leaderboardCacheTTL).Err(); err != nil {
		log.Printf("[LEADERBOARD] cache write failed for %s: %v", key, err)
	}
}
