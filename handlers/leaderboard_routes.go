// handlers/leaderboard_routes.go
package handlers

import (
	"strconv"

	"recipe-share-system/middleware"
	"recipe-share-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService) {
	app.Get("/leaderboard/:board", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "25"))
		timeframe := c.Query("timeframe", "all")

		board, err := leaderboardService.Board(c.Context(), c.Params("board"), timeframe, page, limit)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to load leaderboard",
				"cause": err.Error(),
			})
		}

		return c.JSON(board)
	})

	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/leaderboard/me/rank", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		rank, err := leaderboardService.UserRank(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute rank",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{"rank": rank})
	})
}
