package services

import (
	"testing"

	"recipe-share-system/models"
	"recipe-share-system/testutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestStack(t *testing.T) (*gorm.DB, *ActionTracker) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	engine := NewXPEngine(DefaultXPConfig())
	notifier := NewNotificationService(db)
	badges := NewBadgeService(db, engine, notifier)
	tracker := NewActionTracker(db, engine, badges, notifier)
	return db, tracker
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Level:        1,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createTestRecipe(t *testing.T, db *gorm.DB, authorID, title string) *models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Title:    title,
		Slug:     uuid.NewString(),
		Status:   models.RecipeStatusPublished,
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	return &recipe
}

func TestTrackDailyLogin(t *testing.T) {
	db, tracker := newTestStack(t)
	user := createTestUser(t, db, "alice")

	result := tracker.TrackDailyLogin(user.ID)
	if !result.Success || !result.Performed {
		t.Fatalf("first login not performed: %+v", result)
	}
	if result.XPAwarded != 5 {
		t.Errorf("login XP = %d, want 5", result.XPAwarded)
	}

	var updated models.User
	if err := db.First(&updated, "id = ?", user.ID).Error; err != nil {
		t.Fatal(err)
	}
	if updated.XP != 5 {
		t.Errorf("stored XP = %d, want 5", updated.XP)
	}
}

func TestTrackDailyLogin_OncePerDay(t *testing.T) {
	db, tracker := newTestStack(t)
	user := createTestUser(t, db, "alice")

	first := tracker.TrackDailyLogin(user.ID)
	if !first.Performed {
		t.Fatalf("first login should be performed: %+v", first)
	}

	second := tracker.TrackDailyLogin(user.ID)
	if !second.Success {
		t.Fatalf("repeat login must not be a failure: %+v", second)
	}
	if second.Performed {
		t.Fatal("repeat login on the same day must not award XP")
	}
	if second.Message != "Already logged in today" {
		t.Errorf("repeat message = %q", second.Message)
	}

	var actions int64
	db.Model(&models.UserAction{}).
		Where("user_id = ? AND action_type = ?", user.ID, models.ActionDailyLogin).
		Count(&actions)
	if actions != 1 {
		t.Errorf("login action rows = %d, want 1", actions)
	}

	var updated models.User
	db.First(&updated, "id = ?", user.ID)
	if updated.XP != 5 {
		t.Errorf("XP after repeat login = %d, want 5", updated.XP)
	}
}

func TestTrackRecipeCooked_Bonuses(t *testing.T) {
	db, tracker := newTestStack(t)
	user := createTestUser(t, db, "alice")
	author := createTestUser(t, db, "bob")
	recipe := createTestRecipe(t, db, author.ID, "Pasta")

	result := tracker.TrackRecipeCooked(user.ID, recipe.ID, true, true)
	if !result.Performed {
		t.Fatalf("cook not performed: %+v", result)
	}
	if result.XPAwarded != 18 {
		t.Errorf("cook with photo+rating = %d XP, want 18", result.XPAwarded)
	}

	var action models.UserAction
	if err := db.First(&action, "user_id = ? AND action_type = ?", user.ID, models.ActionRecipeCooked).Error; err != nil {
		t.Fatal(err)
	}
	if !action.Metadata.HasPhoto || !action.Metadata.HasRating {
		t.Errorf("metadata snapshot = %+v, want photo and rating set", action.Metadata)
	}
	if action.DedupeKey == nil {
		t.Error("cook action must carry a dedupe key")
	}
}

func TestTrackRecipeCooked_OncePerRecipe(t *testing.T) {
	db, tracker := newTestStack(t)
	user := createTestUser(t, db, "alice")
	author := createTestUser(t, db, "bob")
	recipe := createTestRecipe(t, db, author.ID, "Pasta")
	other := createTestRecipe(t, db, author.ID, "Soup")

	if r := tracker.TrackRecipeCooked(user.ID, recipe.ID, false, false); !r.Performed {
		t.Fatalf("first cook: %+v", r)
	}
	repeat := tracker.TrackRecipeCooked(user.ID, recipe.ID, true, true)
	if !repeat.Success || repeat.Performed {
		t.Fatalf("repeat cook of same recipe must be already-performed: %+v", repeat)
	}

	// A different recipe is a fresh award.
	if r := tracker.TrackRecipeCooked(user.ID, other.ID, false, false); !r.Performed {
		t.Fatalf("cook of different recipe: %+v", r)
	}
}

func TestTrackRecipeCreated_FirstRecipeBonus(t *testing.T) {
	db, tracker := newTestStack(t)
	user := createTestUser(t, db, "alice")
	first := createTestRecipe(t, db, user.ID, "Pasta")
	second := createTestRecipe(t, db, user.ID, "Soup")

	r1 := tracker.TrackRecipeCreated(user.ID, first.ID)
	if r1.XPAwarded != 100 {
		t.Errorf("first recipe XP = %d, want 100", r1.XPAwarded)
	}
	if r1.LevelUp == nil || r1.NewLevel != 2 {
		t.Errorf("first recipe should reach level 2: %+v", r1)
	}

	r2 := tracker.TrackRecipeCreated(user.ID, second.ID)
	if r2.XPAwarded != 50 {
		t.Errorf("second recipe XP = %d, want 50 (no repeat bonus)", r2.XPAwarded)
	}
}

func TestTrack_MixedKindsAccumulate(t *testing.T) {
	db, tracker := newTestStack(t)
	user := createTestUser(t, db, "alice")
	author := createTestUser(t, db, "bob")
	recipe := createTestRecipe(t, db, author.ID, "Pasta")

	tracker.TrackDailyLogin(user.ID)
	tracker.TrackCommentPosted(user.ID, recipe.ID)
	tracker.TrackRecipeLiked(user.ID, recipe.ID)

	var updated models.User
	db.First(&updated, "id = ?", user.ID)
	if updated.XP != 8 {
		t.Errorf("accumulated XP = %d, want 8", updated.XP)
	}
	if updated.Level != 1 || updated.LastLevelUpAt != nil {
		t.Errorf("user = level %d lastLevelUp %v, want level 1 with no level-up mark", updated.Level, updated.LastLevelUpAt)
	}

	first := tracker.TrackRecipeCreated(user.ID, recipe.ID)
	if first.NewXP != 108 {
		t.Errorf("XP after first recipe = %d, want 108", first.NewXP)
	}
	db.First(&updated, "id = ?", user.ID)
	if updated.Level != 2 || updated.LastLevelUpAt == nil {
		t.Errorf("user = level %d lastLevelUp %v, want level 2 with level-up mark", updated.Level, updated.LastLevelUpAt)
	}
}

func TestTrack_UnknownKindAwardsNothing(t *testing.T) {
	db, tracker := newTestStack(t)
	user := createTestUser(t, db, "alice")

	result := tracker.Track(user.ID, "no_such_action", nil, RewardFlags{}, models.ActionMetadata{})
	if !result.Success || !result.Performed {
		t.Fatalf("unknown kind must not fail the pipeline: %+v", result)
	}
	if result.XPAwarded != 0 {
		t.Errorf("unknown kind XP = %d, want 0", result.XPAwarded)
	}
	if result.LevelUp != nil {
		t.Errorf("unexpected level up: %+v", result.LevelUp)
	}

	var updated models.User
	db.First(&updated, "id = ?", user.ID)
	if updated.XP != 0 || updated.Level != 1 {
		t.Errorf("user after zero award = XP %d level %d, want 0/1", updated.XP, updated.Level)
	}
}

func TestTrack_UnknownUser(t *testing.T) {
	_, tracker := newTestStack(t)

	result := tracker.TrackDailyLogin(uuid.NewString())
	if result.Success {
		t.Fatalf("tracking for missing user must fail: %+v", result)
	}
}

func TestGetActionStats(t *testing.T) {
	db, tracker := newTestStack(t)
	user := createTestUser(t, db, "alice")
	author := createTestUser(t, db, "bob")
	recipe := createTestRecipe(t, db, author.ID, "Pasta")

	tracker.TrackDailyLogin(user.ID)
	tracker.TrackCommentPosted(user.ID, recipe.ID)
	tracker.TrackCommentPosted(user.ID, recipe.ID)

	stats, err := tracker.GetActionStats(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalActions != 3 {
		t.Errorf("total actions = %d, want 3", stats.TotalActions)
	}
	if stats.TotalXPEarned != 9 {
		t.Errorf("total XP = %d, want 9", stats.TotalXPEarned)
	}
	if got := stats.ByType[models.ActionCommentPosted]; got.Count != 2 || got.XPEarned != 4 {
		t.Errorf("comment stats = %+v, want count 2 / xp 4", got)
	}
}

func TestGetUserActions_FilterByType(t *testing.T) {
	db, tracker := newTestStack(t)
	user := createTestUser(t, db, "alice")
	author := createTestUser(t, db, "bob")
	recipe := createTestRecipe(t, db, author.ID, "Pasta")

	tracker.TrackDailyLogin(user.ID)
	tracker.TrackRecipeLiked(user.ID, recipe.ID)

	actions, err := tracker.GetUserActions(user.ID, models.ActionRecipeLiked, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(actions) != 1 || actions[0].ActionType != models.ActionRecipeLiked {
		t.Errorf("filtered actions = %+v, want one recipe_liked", actions)
	}
}
