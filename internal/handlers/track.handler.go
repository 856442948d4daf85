package handlers

import (
	"kaudio/internal/app"
	catalogController "kaudio/internal/controllers/catalog"
	"kaudio/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type TrackHandler struct {
	Handler
	catalogController catalogController.CatalogControllerInterface
}

type ExplicitRequest struct {
	IsExplicit bool `json:"isExplicit"`
}

func NewTrackHandler(app app.App, router fiber.Router) *TrackHandler {
	return &TrackHandler{
		catalogController: app.Controllers.Catalog,
		Handler: Handler{
			log:        logger.New("handlers").File("track_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TrackHandler) Register() {
	auth := h.middleware.RequireAuth()

	tracks := h.router.Group("/tracks")
	tracks.Get("/", h.listTracks)
	tracks.Get("/:id", h.getTrack)
	tracks.Post("/", auth, h.createTrack)
	tracks.Put("/:id", auth, h.updateTrack)
	tracks.Delete("/:id", auth, h.deleteTrack)
	tracks.Put("/:id/genres", auth, h.setGenres)
	tracks.Put("/:id/explicit", auth, h.setExplicit)
}

func (h *TrackHandler) listTracks(c *fiber.Ctx) error {
	filter, err := parseTrackFilter(c)
	if err != nil {
		return h.respondError(c, err, "Invalid track filter")
	}

	tracks, err := h.catalogController.ListTracks(c.UserContext(), filter)
	if err != nil {
		return h.respondError(c, err, "Failed to list tracks")
	}

	return c.JSON(fiber.Map{"tracks": tracks})
}

func (h *TrackHandler) getTrack(c *fiber.Ctx) error {
	trackID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	track, err := h.catalogController.GetTrack(c.UserContext(), trackID)
	if err != nil {
		return h.respondError(c, err, "Failed to get track")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) createTrack(c *fiber.Ctx) error {
	var req catalogController.TrackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	track, err := h.catalogController.CreateTrack(c.UserContext(), middleware.GetUser(c), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create track")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) updateTrack(c *fiber.Ctx) error {
	trackID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	var req catalogController.TrackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	track, err := h.catalogController.UpdateTrack(c.UserContext(), middleware.GetUser(c), trackID, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to update track")
	}

	return c.JSON(fiber.Map{"track": track})
}

func (h *TrackHandler) deleteTrack(c *fiber.Ctx) error {
	trackID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	if err := h.catalogController.DeleteTrack(c.UserContext(), middleware.GetUser(c), trackID); err != nil {
		return h.respondError(c, err, "Failed to delete track")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TrackHandler) setGenres(c *fiber.Ctx) error {
	trackID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	var req GenresRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.catalogController.SetTrackGenres(c.UserContext(), middleware.GetUser(c), trackID, req.GenreIDs); err != nil {
		return h.respondError(c, err, "Failed to set track genres")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TrackHandler) setExplicit(c *fiber.Ctx) error {
	trackID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	var req ExplicitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	track, err := h.catalogController.SetExplicit(c.UserContext(), middleware.GetUser(c), trackID, req.IsExplicit)
	if err != nil {
		return h.respondError(c, err, "Failed to update explicit flag")
	}

	return c.JSON(fiber.Map{"track": track})
}
