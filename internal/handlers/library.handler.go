package handlers

import (
	"kaudio/internal/app"
	libraryController "kaudio/internal/controllers/library"
	"kaudio/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LibraryHandler struct {
	Handler
	libraryController libraryController.LibraryControllerInterface
}

type LibraryAlbumRequest struct {
	AlbumID uuid.UUID `json:"albumId"`
}

type LibraryTrackRequest struct {
	TrackID uuid.UUID `json:"trackId"`
}

func NewLibraryHandler(app app.App, router fiber.Router) *LibraryHandler {
	return &LibraryHandler{
		libraryController: app.Controllers.Library,
		Handler: Handler{
			log:        logger.New("handlers").File("library_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *LibraryHandler) Register() {
	library := h.router.Group("/library", h.middleware.RequireAuth())

	library.Get("/albums", h.listAlbums)
	library.Post("/albums", h.addAlbum)
	library.Delete("/albums/:albumId", h.removeAlbum)
	library.Put("/albums/:albumId/position", h.moveAlbum)

	library.Get("/tracks", h.listTracks)
	library.Post("/tracks", h.addTrack)
	library.Delete("/tracks/:trackId", h.removeTrack)
	library.Put("/tracks/:trackId/position", h.moveTrack)
}

func (h *LibraryHandler) listAlbums(c *fiber.Ctx) error {
	albums, err := h.libraryController.ListAlbums(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.respondError(c, err, "Failed to list library albums")
	}

	return c.JSON(fiber.Map{"albums": albums})
}

func (h *LibraryHandler) addAlbum(c *fiber.Ctx) error {
	var req LibraryAlbumRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.libraryController.AddAlbum(c.UserContext(), middleware.GetUser(c), req.AlbumID)
	if err != nil {
		return h.respondError(c, err, "Failed to add album")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"album": entry})
}

func (h *LibraryHandler) removeAlbum(c *fiber.Ctx) error {
	albumID, err := paramID(c, "albumId")
	if err != nil {
		return h.respondError(c, err, "Invalid album ID")
	}

	if err := h.libraryController.RemoveAlbum(c.UserContext(), middleware.GetUser(c), albumID); err != nil {
		return h.respondError(c, err, "Failed to remove album")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LibraryHandler) moveAlbum(c *fiber.Ctx) error {
	albumID, err := paramID(c, "albumId")
	if err != nil {
		return h.respondError(c, err, "Invalid album ID")
	}

	var req PositionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	position, err := h.libraryController.MoveAlbum(c.UserContext(), middleware.GetUser(c), albumID, req.Position)
	if err != nil {
		return h.respondError(c, err, "Failed to move album")
	}

	return c.JSON(fiber.Map{"position": position})
}

func (h *LibraryHandler) listTracks(c *fiber.Ctx) error {
	tracks, err := h.libraryController.ListTracks(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.respondError(c, err, "Failed to list library tracks")
	}

	return c.JSON(fiber.Map{"tracks": tracks})
}

func (h *LibraryHandler) addTrack(c *fiber.Ctx) error {
	var req LibraryTrackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.libraryController.AddTrack(c.UserContext(), middleware.GetUser(c), req.TrackID)
	if err != nil {
		return h.respondError(c, err, "Failed to add track")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"track": entry})
}

func (h *LibraryHandler) removeTrack(c *fiber.Ctx) error {
	trackID, err := paramID(c, "trackId")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	if err := h.libraryController.RemoveTrack(c.UserContext(), middleware.GetUser(c), trackID); err != nil {
		return h.respondError(c, err, "Failed to remove track")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LibraryHandler) moveTrack(c *fiber.Ctx) error {
	trackID, err := paramID(c, "trackId")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	var req PositionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	position, err := h.libraryController.MoveTrack(c.UserContext(), middleware.GetUser(c), trackID, req.Position)
	if err != nil {
		return h.respondError(c, err, "Failed to move track")
	}

	return c.JSON(fiber.Map{"position": position})
}
