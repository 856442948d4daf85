package handlers

import (
	"kaudio/internal/app"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		status := "ok"
		if sqlDB, err := app.Database.SQL.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status = "degraded"
		}

		return c.JSON(fiber.Map{
			"status":  status,
			"version": app.Config.GeneralVersion,
			"service": "kaudio_api",
		})
	})
}
