package services

import (
	"errors"
	"testing"

	"recipe-share-system/models"

	"gorm.io/gorm"
)

func newRecipeStack(t *testing.T) (*gorm.DB, *RecipeService) {
	t.Helper()
	db, tracker := newTestStack(t)
	return db, NewRecipeService(db, tracker, tracker.Badges, tracker.Notifier)
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestCreateRecipe(t *testing.T) {
	db, svc := newRecipeStack(t)
	author := createTestUser(t, db, "alice")

	recipe, track, err := svc.Create(author.ID, CreateRecipeInput{Title: "Spaghetti Carbonara"})
	if err != nil {
		t.Fatal(err)
	}
	if recipe.Slug != "spaghetti-carbonara" {
		t.Errorf("slug = %q", recipe.Slug)
	}
	if recipe.Status != models.RecipeStatusPublished {
		t.Errorf("status = %q, want published", recipe.Status)
	}
	if track == nil || track.XPAwarded != 100 {
		t.Errorf("first recipe track = %+v, want 100 XP", track)
	}

	// Same title gets a suffixed slug, not a constraint error.
	dup, _, err := svc.Create(author.ID, CreateRecipeInput{Title: "Spaghetti Carbonara"})
	if err != nil {
		t.Fatal(err)
	}
	if dup.Slug == recipe.Slug {
		t.Error("duplicate title produced the same slug")
	}
}

func TestCreateRecipe_FirstRecipeBadgeInSameSweep(t *testing.T) {
	db, svc := newRecipeStack(t)
	seedBadges(t, db, svc.Badges)
	author := createTestUser(t, db, "alice")

	_, track, err := svc.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}
	if !badgeNames(track.NewBadges)["First Recipe"] {
		t.Errorf("create result badges = %v, want First Recipe in the same sweep", badgeNames(track.NewBadges))
	}
}

func TestCreateRecipe_EmptyTitle(t *testing.T) {
	db, svc := newRecipeStack(t)
	author := createTestUser(t, db, "alice")

	if _, _, err := svc.Create(author.ID, CreateRecipeInput{Title: "   "}); err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestMarkCooked(t *testing.T) {
	db, svc := newRecipeStack(t)
	author := createTestUser(t, db, "alice")
	cook := createTestUser(t, db, "bob")
	recipe, _, err := svc.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.MarkCooked(cook.ID, recipe.Slug, MarkCookedInput{
		PhotoURL: strPtr("https://cdn.example.com/cooked/1.jpg"),
		Rating:   floatPtr(4.0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Track.XPAwarded != 18 {
		t.Errorf("cook XP = %d, want 18 (base + photo + rating)", result.Track.XPAwarded)
	}
	if result.Recipe.CookCount != 1 {
		t.Errorf("cook count = %d, want 1", result.Recipe.CookCount)
	}
	if result.Recipe.RatingAverage != 4.0 {
		t.Errorf("rating average = %v, want 4.0", result.Recipe.RatingAverage)
	}
}

func TestMarkCooked_OncePerUser(t *testing.T) {
	db, svc := newRecipeStack(t)
	author := createTestUser(t, db, "alice")
	cook := createTestUser(t, db, "bob")
	recipe, _, err := svc.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.MarkCooked(cook.ID, recipe.Slug, MarkCookedInput{}); err != nil {
		t.Fatal(err)
	}

	_, err = svc.MarkCooked(cook.ID, recipe.Slug, MarkCookedInput{})
	if !errors.Is(err, ErrAlreadyCooked) {
		t.Fatalf("repeat cook err = %v, want ErrAlreadyCooked", err)
	}

	var count int64
	db.Model(&models.CookedRecipe{}).Where("user_id = ?", cook.ID).Count(&count)
	if count != 1 {
		t.Errorf("cooked rows = %d, want 1", count)
	}
}

func TestMarkCooked_RatingAggregation(t *testing.T) {
	db, svc := newRecipeStack(t)
	author := createTestUser(t, db, "alice")
	cook1 := createTestUser(t, db, "bob")
	cook2 := createTestUser(t, db, "carol")
	recipe, _, err := svc.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.MarkCooked(cook1.ID, recipe.Slug, MarkCookedInput{Rating: floatPtr(4.0)}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.MarkCooked(cook2.ID, recipe.Slug, MarkCookedInput{Rating: floatPtr(5.0)}); err != nil {
		t.Fatal(err)
	}

	var updated models.Recipe
	db.First(&updated, "id = ?", recipe.ID)
	if updated.RatingCount != 2 || updated.RatingAverage != 4.5 {
		t.Errorf("rating = %d ratings avg %v, want 2 ratings avg 4.5", updated.RatingCount, updated.RatingAverage)
	}
	if updated.CookCount != 2 {
		t.Errorf("cook count = %d, want 2", updated.CookCount)
	}
}

func TestMarkCooked_InvalidRating(t *testing.T) {
	db, svc := newRecipeStack(t)
	author := createTestUser(t, db, "alice")
	cook := createTestUser(t, db, "bob")
	recipe, _, err := svc.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.MarkCooked(cook.ID, recipe.Slug, MarkCookedInput{Rating: floatPtr(0.5)}); err == nil {
		t.Error("expected error for rating below 1.0")
	}
	if _, err := svc.MarkCooked(cook.ID, recipe.Slug, MarkCookedInput{Rating: floatPtr(5.5)}); err == nil {
		t.Error("expected error for rating above 5.0")
	}
}

func TestLikeRecipe(t *testing.T) {
	db, svc := newRecipeStack(t)
	author := createTestUser(t, db, "alice")
	liker := createTestUser(t, db, "bob")
	recipe, _, err := svc.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}

	updated, liked, err := svc.Like(liker.ID, recipe.Slug)
	if err != nil {
		t.Fatal(err)
	}
	if !liked || updated.LikesCount != 1 {
		t.Errorf("like = %v count %d, want liked with count 1", liked, updated.LikesCount)
	}

	// Repeat like is a quiet no-op.
	updated, liked, err = svc.Like(liker.ID, recipe.Slug)
	if err != nil {
		t.Fatal(err)
	}
	if liked {
		t.Error("repeat like reported as new")
	}

	var count int64
	db.Model(&models.RecipeLike{}).Where("recipe_id = ?", recipe.ID).Count(&count)
	if count != 1 {
		t.Errorf("like rows = %d, want 1", count)
	}
}

func TestFeatureRecipe(t *testing.T) {
	db, svc := newRecipeStack(t)
	author := createTestUser(t, db, "alice")
	recipe, _, err := svc.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}

	featured, track, err := svc.Feature(recipe.Slug)
	if err != nil {
		t.Fatal(err)
	}
	if !featured.IsFeatured {
		t.Error("recipe not marked featured")
	}
	if track == nil || track.XPAwarded != 200 {
		t.Errorf("feature track = %+v, want 200 XP to author", track)
	}

	// Featuring again is a no-op with no second award.
	_, track, err = svc.Feature(recipe.Slug)
	if err != nil {
		t.Fatal(err)
	}
	if track != nil {
		t.Errorf("repeat feature awarded XP: %+v", track)
	}
}

func TestGetBySlug_OnlyPublished(t *testing.T) {
	db, svc := newRecipeStack(t)
	author := createTestUser(t, db, "alice")

	draft := models.Recipe{
		ID:       "draft-id",
		AuthorID: author.ID,
		Title:    "Secret",
		Slug:     "secret",
		Status:   models.RecipeStatusDraft,
	}
	if err := db.Create(&draft).Error; err != nil {
		t.Fatal(err)
	}

	if _, err := svc.GetBySlug("secret"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("draft lookup err = %v, want ErrRecordNotFound", err)
	}
}

func TestSearchRecipes(t *testing.T) {
	db, svc := newRecipeStack(t)
	author := createTestUser(t, db, "alice")

	if _, _, err := svc.Create(author.ID, CreateRecipeInput{Title: "Spicy Ramen", Tags: "noodles,spicy"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Create(author.ID, CreateRecipeInput{Title: "Greek Salad", Cuisine: "greek"}); err != nil {
		t.Fatal(err)
	}
	draft := models.Recipe{
		ID:       "draft-ramen",
		AuthorID: author.ID,
		Title:    "Ramen Experiments",
		Slug:     "ramen-experiments",
		Status:   models.RecipeStatusDraft,
	}
	if err := db.Create(&draft).Error; err != nil {
		t.Fatal(err)
	}

	recipes, total, err := svc.Search("RAMEN", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(recipes) != 1 || recipes[0].Title != "Spicy Ramen" {
		t.Fatalf("search ramen = %d results, want only the published Spicy Ramen", total)
	}

	// Tags and cuisine are searched too.
	if _, total, _ := svc.Search("noodles", 1, 10); total != 1 {
		t.Errorf("tag search total = %d, want 1", total)
	}
	if _, total, _ := svc.Search("greek", 1, 10); total != 1 {
		t.Errorf("cuisine search total = %d, want 1", total)
	}

	if _, _, err := svc.Search("   ", 1, 10); err == nil {
		t.Error("expected error for blank query")
	}
}

func TestSaveRecipe(t *testing.T) {
	db, svc := newRecipeStack(t)
	author := createTestUser(t, db, "alice")
	reader := createTestUser(t, db, "bob")
	recipe, _, err := svc.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}

	saved, err := svc.Save(reader.ID, recipe.Slug)
	if err != nil {
		t.Fatal(err)
	}
	if !saved {
		t.Error("first save reported not saved")
	}

	// Repeat save is a no-op, not an error.
	saved, err = svc.Save(reader.ID, recipe.Slug)
	if err != nil {
		t.Fatal(err)
	}
	if saved {
		t.Error("repeat save reported a new bookmark")
	}

	var count int64
	db.Model(&models.SavedRecipe{}).Where("user_id = ?", reader.ID).Count(&count)
	if count != 1 {
		t.Errorf("saved rows = %d, want 1", count)
	}

	list, err := svc.SavedList(reader.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Recipe.Title != "Pasta" {
		t.Fatalf("saved list = %+v, want the Pasta bookmark", list)
	}
}

func TestUnsaveRecipe(t *testing.T) {
	db, svc := newRecipeStack(t)
	author := createTestUser(t, db, "alice")
	reader := createTestUser(t, db, "bob")
	recipe, _, err := svc.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Save(reader.ID, recipe.Slug); err != nil {
		t.Fatal(err)
	}
	if err := svc.Unsave(reader.ID, recipe.Slug); err != nil {
		t.Fatal(err)
	}

	var count int64
	db.Model(&models.SavedRecipe{}).Where("user_id = ?", reader.ID).Count(&count)
	if count != 0 {
		t.Errorf("saved rows after unsave = %d, want 0", count)
	}

	if err := svc.Unsave(reader.ID, recipe.Slug); err == nil {
		t.Error("expected error when unsaving a recipe that is not saved")
	}
}
