// handlers/notification_routes.go
package handlers

import (
	"errors"
	"strconv"

	"recipe-share-system/middleware"
	"recipe-share-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupNotificationRoutes(app *fiber.App, notifier *services.NotificationService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/notifications", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		unreadOnly := c.Query("unread") == "true"

		notifications, err := notifier.List(userID, unreadOnly, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list notifications",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"notifications": notifications})
	})

	secured.Get("/notifications/unread-count", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		count, err := notifier.UnreadCount(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to count notifications",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"unread": count})
	})

	secured.Post("/notifications/:id/read", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if err := notifier.MarkRead(userID, c.Params("id")); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "notification not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to mark notification read",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"read": true})
	})

	secured.Post("/notifications/read-all", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		updated, err := notifier.MarkAllRead(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to mark notifications read",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"updated": updated})
	})
}
