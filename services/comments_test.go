package services

import (
	"testing"

	"recipe-share-system/models"
)

func TestPostComment(t *testing.T) {
	db, tracker := newTestStack(t)
	recipes := NewRecipeService(db, tracker, tracker.Badges, tracker.Notifier)
	svc := NewCommentService(db, tracker, tracker.Notifier)

	author := createTestUser(t, db, "alice")
	commenter := createTestUser(t, db, "bob")
	recipe, _, err := recipes.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}

	comment, track, err := svc.Post(commenter.ID, recipe.Slug, "Delicious!")
	if err != nil {
		t.Fatal(err)
	}
	if comment.Content != "Delicious!" {
		t.Errorf("content = %q", comment.Content)
	}
	if track.XPAwarded != 2 {
		t.Errorf("comment XP = %d, want 2", track.XPAwarded)
	}

	// Author is notified; self-comments would not be.
	var notes int64
	db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", author.ID, models.NotifyRecipeComment).
		Count(&notes)
	if notes != 1 {
		t.Errorf("comment notifications = %d, want 1", notes)
	}
}

func TestPostComment_EmptyContent(t *testing.T) {
	db, tracker := newTestStack(t)
	recipes := NewRecipeService(db, tracker, tracker.Badges, tracker.Notifier)
	svc := NewCommentService(db, tracker, tracker.Notifier)

	author := createTestUser(t, db, "alice")
	recipe, _, err := recipes.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Post(author.ID, recipe.Slug, "   "); err == nil {
		t.Fatal("expected error for blank comment")
	}
}

func TestEditComment(t *testing.T) {
	db, tracker := newTestStack(t)
	recipes := NewRecipeService(db, tracker, tracker.Badges, tracker.Notifier)
	svc := NewCommentService(db, tracker, tracker.Notifier)

	author := createTestUser(t, db, "alice")
	other := createTestUser(t, db, "bob")
	recipe, _, err := recipes.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}
	comment, _, err := svc.Post(author.ID, recipe.Slug, "first draft")
	if err != nil {
		t.Fatal(err)
	}

	edited, err := svc.Edit(author.ID, comment.ID, "second draft")
	if err != nil {
		t.Fatal(err)
	}
	if edited.Content != "second draft" || !edited.IsEdited {
		t.Errorf("edited = %+v", edited)
	}

	// Someone else cannot edit it.
	if _, err := svc.Edit(other.ID, comment.ID, "hijacked"); err == nil {
		t.Error("expected error editing another user's comment")
	}
}

func TestLikeComment(t *testing.T) {
	db, tracker := newTestStack(t)
	recipes := NewRecipeService(db, tracker, tracker.Badges, tracker.Notifier)
	svc := NewCommentService(db, tracker, tracker.Notifier)

	author := createTestUser(t, db, "alice")
	liker := createTestUser(t, db, "bob")
	recipe, _, err := recipes.Create(author.ID, CreateRecipeInput{Title: "Pasta"})
	if err != nil {
		t.Fatal(err)
	}
	comment, _, err := svc.Post(author.ID, recipe.Slug, "nice")
	if err != nil {
		t.Fatal(err)
	}

	liked, err := svc.Like(liker.ID, comment.ID)
	if err != nil || !liked {
		t.Fatalf("like = %v, %v", liked, err)
	}

	liked, err = svc.Like(liker.ID, comment.ID)
	if err != nil {
		t.Fatal(err)
	}
	if liked {
		t.Error("repeat like reported as new")
	}

	var updated models.Comment
	db.First(&updated, "id = ?", comment.ID)
	if updated.LikesCount != 1 {
		t.Errorf("likes_count = %d, want 1", updated.LikesCount)
	}
}
