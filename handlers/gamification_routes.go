// handlers/gamification_routes.go
package handlers

import (
	"errors"
	"strconv"

	"recipe-share-system/middleware"
	"recipe-share-system/models"
	"recipe-share-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupGamificationRoutes(app *fiber.App, tracker *services.ActionTracker, badgeService *services.BadgeService, engine *services.XPEngine, authService *services.AuthService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		user, err := authService.GetUser(userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
				"cause": err.Error(),
			})
		}

		progress := engine.Progress(user.XP)

		var badgeCount int64
		if err := badgeService.DB.Model(&models.UserBadge{}).
			Where("user_id = ?", userID).Count(&badgeCount).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to count badges",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"user_id":     user.ID,
			"username":    user.Username,
			"xp":          user.XP,
			"level":       progress.CurrentLevel,
			"level_title": engine.LevelTitle(progress.CurrentLevel),
			"progress":    progress,
			"badge_count": badgeCount,
		})
	})

	secured.Get("/user/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		badges, err := badgeService.UserBadges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list badges",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"badges": badges})
	})

	secured.Get("/user/badges/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		report, err := badgeService.Progress(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute badge progress",
				"cause": err.Error(),
			})
		}

		return c.JSON(report)
	})

	// Manual re-sweep, for clients that want to surface missed awards.
	secured.Post("/user/badges/check", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		awarded, err := badgeService.CheckAndAward(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "badge check failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"new_badges": awarded,
			"count":      len(awarded),
		})
	})

	secured.Get("/user/actions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		actions, err := tracker.GetUserActions(userID, c.Query("type"), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list actions",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"actions": actions})
	})

	secured.Get("/user/actions/recent", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		days, _ := strconv.Atoi(c.Query("days", "7"))
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		actions, err := tracker.GetRecentActivity(userID, days, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list recent activity",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"actions": actions, "days": days})
	})

	secured.Get("/user/feed", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		actions, err := tracker.GetFollowedActivity(userID, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to build activity feed",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"actions": actions})
	})

	secured.Get("/user/actions/stats", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		stats, err := tracker.GetActionStats(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute action stats",
				"cause": err.Error(),
			})
		}

		return c.JSON(stats)
	})

	// 🔐 Admin routes
	admin := secured.Group("/", middleware.AdminOnlyMiddleware(func(userID string) bool {
		user, err := authService.GetUser(userID)
		return err == nil && user.IsAdmin
	}))

	admin.Post("/admin/badges/award", func(c *fiber.Ctx) error {
		var input struct {
			UserID  string `json:"user_id"`
			BadgeID string `json:"badge_id"`
		}
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		badge, err := badgeService.AwardSpecial(input.UserID, input.BadgeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "user or badge not found",
					"cause": err.Error(),
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to award badge",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"awarded": badge})
	})

	admin.Post("/admin/badges/seed", func(c *fiber.Ctx) error {
		n, err := badgeService.SeedDefaultBadges()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to seed badges",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"seeded": n})
	})
}
