// handlers/recipe_routes.go
package handlers

import (
	"errors"
	"strconv"

	"recipe-share-system/middleware"
	"recipe-share-system/services"
	"recipe-share-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRecipeRoutes(app *fiber.App, recipeService *services.RecipeService, authService *services.AuthService) {
	// 🔓 Public routes
	app.Get("/recipes", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		recipes, total, err := recipeService.List(c.Query("author_id"), page, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list recipes",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"recipes": recipes,
			"total":   total,
			"page":    page,
			"limit":   limit,
		})
	})

	app.Get("/recipes/search", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		recipes, total, err := recipeService.Search(c.Query("q"), page, limit)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to search recipes",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"recipes": recipes,
			"total":   total,
			"page":    page,
			"limit":   limit,
		})
	})

	app.Get("/recipes/:slug", func(c *fiber.Ctx) error {
		recipe, err := recipeService.GetBySlug(c.Params("slug"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "recipe not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch recipe",
				"cause": err.Error(),
			})
		}
		return c.JSON(recipe)
	})

	// 🔐 Secured routes — require user context
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/recipes", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var input services.CreateRecipeInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		recipe, track, err := recipeService.Create(userID, input)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to create recipe",
				"cause": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"recipe":    recipe,
			"xp_result": track,
		})
	})

	secured.Post("/recipes/:slug/cooked", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var input services.MarkCookedInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		result, err := recipeService.MarkCooked(userID, c.Params("slug"), input)
		if err != nil {
			if errors.Is(err, services.ErrAlreadyCooked) {
				// Repeat cooks are a normal outcome, not a failure.
				return c.JSON(fiber.Map{
					"success": true,
					"cooked":  false,
					"message": err.Error(),
				})
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "recipe not found",
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to mark recipe as cooked",
				"cause": err.Error(),
			})
		}

		return c.JSON(result)
	})

	secured.Get("/recipes/cooked/mine", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		cooked, err := recipeService.CookedList(userID, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list cooked recipes",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"cooked_recipes": cooked})
	})

	secured.Post("/recipes/:slug/save", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		saved, err := recipeService.Save(userID, c.Params("slug"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "recipe not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save recipe",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"saved": saved})
	})

	secured.Delete("/recipes/:slug/save", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if err := recipeService.Unsave(userID, c.Params("slug")); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "recipe not found",
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to unsave recipe",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"saved": false})
	})

	secured.Get("/recipes/saved/mine", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		saved, err := recipeService.SavedList(userID, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list saved recipes",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"saved_recipes": saved})
	})

	secured.Post("/recipes/:slug/like", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		recipe, liked, err := recipeService.Like(userID, c.Params("slug"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "recipe not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to like recipe",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"liked":       liked,
			"likes_count": recipe.LikesCount,
		})
	})

	secured.Post("/recipes/photos", func(c *fiber.Ctx) error {
		if !utils.R2Ready() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "photo uploads are not configured",
			})
		}

		fileHeader, err := c.FormFile("photo")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "photo file is required",
				"cause": err.Error(),
			})
		}

		folder := c.FormValue("folder", "covers")
		if folder != "covers" && folder != "cooked" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "folder must be covers or cooked",
			})
		}

		url, err := utils.UploadPhoto(fileHeader, folder)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to upload photo",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"url": url})
	})

	// Admin: featuring a recipe awards a one-time XP bonus to its author.
	admin := secured.Group("/", middleware.AdminOnlyMiddleware(func(userID string) bool {
		user, err := authService.GetUser(userID)
		return err == nil && user.IsAdmin
	}))

	admin.Post("/recipes/:slug/feature", func(c *fiber.Ctx) error {
		recipe, track, err := recipeService.Feature(c.Params("slug"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "recipe not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to feature recipe",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"recipe":    recipe,
			"xp_result": track,
		})
	})
}
