package testutil

import (
	"testing"

	"recipe-share-system/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens an in-memory SQLite database and migrates every table.
// TranslateError is on so duplicate-key handling behaves like production.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Recipe{},
		&models.RecipeLike{},
		&models.SavedRecipe{},
		&models.CookedRecipe{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Badge{},
		&models.UserBadge{},
		&models.UserAction{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
