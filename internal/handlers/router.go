package handlers

import (
	"kaudio/internal/app"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api", app.Middleware.TraceID())
	HealthHandler(api, app)
	NewAuthHandler(*app, api).Register()
	NewUserHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()
	NewArtistHandler(*app, api).Register()
	NewAlbumHandler(*app, api).Register()
	NewTrackHandler(*app, api).Register()
	NewGenreHandler(*app, api).Register()
	NewPlaylistHandler(*app, api).Register()
	NewLibraryHandler(*app, api).Register()
	NewActivityHandler(*app, api).Register()
	NewReviewHandler(*app, api).Register()
	NewStatsHandler(*app, api).Register()
	NewSubscriptionHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
