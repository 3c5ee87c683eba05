// handlers/social_routes.go
package handlers

import (
	"errors"
	"strconv"

	"recipe-share-system/middleware"
	"recipe-share-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupSocialRoutes(app *fiber.App, followService *services.FollowService, commentService *services.CommentService) {
	// 🔓 Public routes
	app.Get("/users/:id/followers", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		users, total, err := followService.Followers(c.Params("id"), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list followers",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"followers": users, "total": total})
	})

	app.Get("/users/:id/following", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		users, total, err := followService.Following(c.Params("id"), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list following",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"following": users, "total": total})
	})

	app.Get("/recipes/:slug/comments", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		comments, total, err := commentService.List(c.Params("slug"), page, limit)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "recipe not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list comments",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"comments": comments,
			"total":    total,
			"page":     page,
			"limit":    limit,
		})
	})

	// 🔐 Secured routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/users/:id/follow", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		track, err := followService.Follow(userID, c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to follow user",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"following": true,
			"xp_result": track,
		})
	})

	secured.Delete("/users/:id/follow", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if err := followService.Unfollow(userID, c.Params("id")); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to unfollow user",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"following": false})
	})

	secured.Get("/users/:id/follow", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		following, err := followService.IsFollowing(userID, c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to check follow state",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"following": following})
	})

	secured.Post("/recipes/:slug/comments", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var input struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		comment, track, err := commentService.Post(userID, c.Params("slug"), input.Content)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "recipe not found",
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to post comment",
				"cause": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"comment":   comment,
			"xp_result": track,
		})
	})

	secured.Put("/comments/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var input struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		comment, err := commentService.Edit(userID, c.Params("id"), input.Content)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "comment not found",
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to edit comment",
				"cause": err.Error(),
			})
		}

		return c.JSON(comment)
	})

	secured.Post("/comments/:id/like", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		liked, err := commentService.Like(userID, c.Params("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "comment not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to like comment",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"liked": liked})
	})
}
