// handlers/auth_routes.go
package handlers

import (
	"recipe-share-system/middleware"
	"recipe-share-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	app.Post("/auth/register", func(c *fiber.Ctx) error {
		var input services.RegisterInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		user, err := authService.Register(input)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "registration failed",
				"cause": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(user)
	})

	app.Post("/auth/login", func(c *fiber.Ctx) error {
		var input struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		result, err := authService.Login(input.Email, input.Password)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "login failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(result)
	})

	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/auth/me", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		user, err := authService.GetUser(userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
				"cause": err.Error(),
			})
		}

		return c.JSON(user)
	})

	// Explicit daily-login claim for clients that keep long-lived sessions and
	// don't go through /auth/login every day.
	secured.Post("/auth/daily-login", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		return c.JSON(authService.Tracker.TrackDailyLogin(userID))
	})
}
