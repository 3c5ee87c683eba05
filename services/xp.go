package services

import (
	"fmt"
	"math"

	"recipe-share-system/models"
)

// XPConfig holds the level threshold table, the per-action reward table and
// the level titles. It is immutable once constructed — the engine never
// mutates it, and tests can inject alternate tables.
type XPConfig struct {
	// Thresholds[i] is the minimum cumulative XP for level i+1.
	// Must be ascending and start at 0 (level 1).
	Thresholds []int64
	Rewards    map[string]int64
	Titles     []string
}

// DefaultXPConfig returns the production tables: 20 levels, rewards per
// action kind, and the flavor titles.
func DefaultXPConfig() XPConfig {
	return XPConfig{
		Thresholds: []int64{
			0,     // 1
			100,   // 2
			250,   // 3
			500,   // 4
			850,   // 5
			1300,  // 6
			1900,  // 7
			2600,  // 8
			3400,  // 9
			4300,  // 10
			5300,  // 11
			6500,  // 12
			7900,  // 13
			9500,  // 14
			11300, // 15
			13300, // 16
			15500, // 17
			18000, // 18
			20800, // 19
			24000, // 20
		},
		Rewards: map[string]int64{
			models.ActionRecipeCreated:  50,
			models.ActionRecipeCooked:   10,
			models.ActionPhotoUploaded:  5,
			models.ActionRecipeRated:    3,
			models.ActionCommentPosted:  2,
			models.ActionRecipeLiked:    1,
			models.ActionUserFollowed:   5,
			models.ActionDailyLogin:     5,
			models.ActionFirstRecipe:    100, // bonus for first recipe
			models.ActionRecipeFeatured: 200, // admin featured recipe
		},
		Titles: []string{
			"Novice Cook",
			"Home Cook",
			"Kitchen Helper",
			"Prep Cook",
			"Line Cook",
			"Station Chef",
			"Sous Chef",
			"Head Chef",
			"Executive Chef",
			"Master Chef",
			"Culinary Expert",
			"Kitchen Maestro",
			"Gastronomy Guru",
			"Culinary Artist",
			"Food Innovator",
			"Michelin Star",
			"Culinary Legend",
			"Master Cuisiner",
			"Global Icon",
			"Culinary God",
		},
	}
}

// XPEngine is the pure, stateless mapping between XP totals, levels and
// action rewards.
type XPEngine struct {
	cfg XPConfig
}

func NewXPEngine(cfg XPConfig) *XPEngine {
	return &XPEngine{cfg: cfg}
}

// RewardFlags carry the optional bonuses that apply to some action kinds.
type RewardFlags struct {
	HasPhoto  bool
	HasRating bool
}

// LevelForXP returns the highest level whose threshold is <= xp.
// Total function — any xp below the first threshold maps to level 1.
func (e *XPEngine) LevelForXP(xp int64) int {
	level := 1
	for i := len(e.cfg.Thresholds) - 1; i >= 0; i-- {
		if xp >= e.cfg.Thresholds[i] {
			level = i + 1
			break
		}
	}
	return level
}

// MaxLevel is the highest level defined by the threshold table.
func (e *XPEngine) MaxLevel() int {
	return len(e.cfg.Thresholds)
}

// ThresholdFor returns the minimum XP for a level; out-of-range levels
// return 0.
func (e *XPEngine) ThresholdFor(level int) int64 {
	if level < 1 || level > len(e.cfg.Thresholds) {
		return 0
	}
	return e.cfg.Thresholds[level-1]
}

// XPProgress describes where a total sits within its level band.
type XPProgress struct {
	CurrentLevel    int     `json:"current_level"`
	NextLevel       int     `json:"next_level"`
	CurrentLevelXP  int64   `json:"current_level_xp"`
	NextLevelXP     int64   `json:"next_level_xp"`
	XPIntoLevel     int64   `json:"xp_progress"`
	XPToNext        int64   `json:"xp_needed"`
	PercentComplete float64 `json:"progress_percentage"`
}

// Progress computes progression toward the next level. At max level the
// percentage is pinned to 100 and XPToNext to 0.
func (e *XPEngine) Progress(xp int64) XPProgress {
	current := e.LevelForXP(xp)
	next := current + 1
	if next > e.MaxLevel() {
		next = e.MaxLevel()
	}

	currentXP := e.ThresholdFor(current)
	nextXP := e.ThresholdFor(next)

	into := xp - currentXP
	needed := nextXP - xp
	if needed < 0 {
		needed = 0
	}

	pct := 100.0 // max level reached
	if nextXP > currentXP {
		pct = float64(into) / float64(nextXP-currentXP) * 100
	}

	return XPProgress{
		CurrentLevel:    current,
		NextLevel:       next,
		CurrentLevelXP:  currentXP,
		NextLevelXP:     nextXP,
		XPIntoLevel:     into,
		XPToNext:        needed,
		PercentComplete: round2(pct),
	}
}

// RewardFor looks up the base reward for an action kind. Unknown kinds
// reward 0 rather than failing. Cooking gets additive bonuses for an
// attached photo and a supplied rating, drawn from the same table.
func (e *XPEngine) RewardFor(actionType string, flags RewardFlags) int64 {
	base := e.cfg.Rewards[actionType]

	if actionType == models.ActionRecipeCooked {
		if flags.HasPhoto {
			base += e.cfg.Rewards[models.ActionPhotoUploaded]
		}
		if flags.HasRating {
			base += e.cfg.Rewards[models.ActionRecipeRated]
		}
	}

	return base
}

// LevelUp describes a level change between two XP totals.
type LevelUp struct {
	OldLevel     int `json:"old_level"`
	NewLevel     int `json:"new_level"`
	LevelsGained int `json:"levels_gained"`
}

// DetectLevelUp returns nil when no level boundary was crossed.
func (e *XPEngine) DetectLevelUp(oldXP, newXP int64) *LevelUp {
	oldLevel := e.LevelForXP(oldXP)
	newLevel := e.LevelForXP(newXP)
	if newLevel <= oldLevel {
		return nil
	}
	return &LevelUp{
		OldLevel:     oldLevel,
		NewLevel:     newLevel,
		LevelsGained: newLevel - oldLevel,
	}
}

// LevelTitle returns the flavor name for a level, or "Level N" when the
// level is out of the defined range.
func (e *XPEngine) LevelTitle(level int) string {
	if level < 1 || level > len(e.cfg.Titles) {
		return fmt.Sprintf("Level %d", level)
	}
	return e.cfg.Titles[level-1]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
