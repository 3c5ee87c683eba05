// services/scheduler.go
package services

import (
	"log"
	"time"

	"recipe-share-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartPublishScheduler flips scheduled recipes to published once their
// publish time passes. Runs every minute for the life of the process.
func (s *RecipeService) StartPublishScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var recipes []models.Recipe
			now := time.Now()
			err := s.DB.Where("status = ? AND publish_at <= ?", models.RecipeStatusScheduled, now).
				Find(&recipes).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, r := range recipes {
				r.Status = models.RecipeStatusPublished
				r.PublishAt = nil
				if err := s.DB.Save(&r).Error; err != nil {
					log.Printf("[Scheduler] Failed to publish recipe %s: %v", r.ID, err)
					continue
				}
				log.Printf("✅ Auto-published recipe: %s", r.Title)
				// Creation XP is awarded at publish time for scheduled recipes
				_ = s.Tracker.TrackRecipeCreated(r.AuthorID, r.ID)
			}
		}),
	)
}
