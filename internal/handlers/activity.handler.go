package handlers

import (
	"kaudio/internal/app"
	activityController "kaudio/internal/controllers/activity"
	"kaudio/internal/handlers/middleware"
	"kaudio/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type ActivityHandler struct {
	Handler
	activityController activityController.ActivityControllerInterface
}

func NewActivityHandler(app app.App, router fiber.Router) *ActivityHandler {
	return &ActivityHandler{
		activityController: app.Controllers.Activity,
		Handler: Handler{
			log:        logger.New("handlers").File("activity_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ActivityHandler) Register() {
	activities := h.router.Group("/activities", h.middleware.RequireAuth())
	activities.Post("/", h.recordActivity)
	activities.Get("/", h.listActivities)
	activities.Get("/liked-tracks", h.likedTracks)
	activities.Delete("/:id", h.deleteActivity)
}

func (h *ActivityHandler) recordActivity(c *fiber.Ctx) error {
	var req services.ActivityInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	activity, err := h.activityController.Record(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return h.respondError(c, err, "Failed to record activity")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"activity": activity})
}

func (h *ActivityHandler) listActivities(c *fiber.Ctx) error {
	var req activityController.ListRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	activities, err := h.activityController.List(c.UserContext(), middleware.GetUser(c), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to list activities")
	}

	return c.JSON(fiber.Map{"activities": activities})
}

func (h *ActivityHandler) likedTracks(c *fiber.Ctx) error {
	tracks, err := h.activityController.LikedTracks(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.respondError(c, err, "Failed to list liked tracks")
	}

	return c.JSON(fiber.Map{"tracks": tracks})
}

func (h *ActivityHandler) deleteActivity(c *fiber.Ctx) error {
	activityID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid activity ID")
	}

	if err := h.activityController.Delete(c.UserContext(), middleware.GetUser(c), activityID); err != nil {
		return h.respondError(c, err, "Failed to delete activity")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
