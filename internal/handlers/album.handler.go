package handlers

import (
	"kaudio/internal/app"
	catalogController "kaudio/internal/controllers/catalog"
	"kaudio/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AlbumHandler struct {
	Handler
	catalogController catalogController.CatalogControllerInterface
}

type GenresRequest struct {
	GenreIDs []uuid.UUID `json:"genreIds"`
}

func NewAlbumHandler(app app.App, router fiber.Router) *AlbumHandler {
	return &AlbumHandler{
		catalogController: app.Controllers.Catalog,
		Handler: Handler{
			log:        logger.New("handlers").File("album_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AlbumHandler) Register() {
	auth := h.middleware.RequireAuth()

	albums := h.router.Group("/albums")
	albums.Get("/", h.listAlbums)
	albums.Get("/:id", h.getAlbum)
	albums.Post("/", auth, h.createAlbum)
	albums.Put("/:id", auth, h.updateAlbum)
	albums.Delete("/:id", auth, h.deleteAlbum)
	albums.Put("/:id/genres", auth, h.setGenres)
	albums.Post("/:id/recalculate", auth, h.recalculate)
}

func (h *AlbumHandler) listAlbums(c *fiber.Ctx) error {
	filter, err := parseAlbumFilter(c)
	if err != nil {
		return h.respondError(c, err, "Invalid album filter")
	}

	albums, err := h.catalogController.ListAlbums(c.UserContext(), filter)
	if err != nil {
		return h.respondError(c, err, "Failed to list albums")
	}

	return c.JSON(fiber.Map{"albums": albums})
}

func (h *AlbumHandler) getAlbum(c *fiber.Ctx) error {
	albumID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid album ID")
	}

	album, err := h.catalogController.GetAlbum(c.UserContext(), albumID)
	if err != nil {
		return h.respondError(c, err, "Failed to get album")
	}

	return c.JSON(fiber.Map{"album": album})
}

func (h *AlbumHandler) createAlbum(c *fiber.Ctx) error {
	var req catalogController.AlbumRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	album, err := h.catalogController.CreateAlbum(c.UserContext(), middleware.GetUser(c), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create album")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"album": album})
}

func (h *AlbumHandler) updateAlbum(c *fiber.Ctx) error {
	albumID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid album ID")
	}

	var req catalogController.AlbumRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	album, err := h.catalogController.UpdateAlbum(c.UserContext(), middleware.GetUser(c), albumID, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to update album")
	}

	return c.JSON(fiber.Map{"album": album})
}

func (h *AlbumHandler) deleteAlbum(c *fiber.Ctx) error {
	albumID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid album ID")
	}

	if err := h.catalogController.DeleteAlbum(c.UserContext(), middleware.GetUser(c), albumID); err != nil {
		return h.respondError(c, err, "Failed to delete album")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AlbumHandler) setGenres(c *fiber.Ctx) error {
	albumID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid album ID")
	}

	var req GenresRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.catalogController.SetAlbumGenres(c.UserContext(), middleware.GetUser(c), albumID, req.GenreIDs); err != nil {
		return h.respondError(c, err, "Failed to set album genres")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AlbumHandler) recalculate(c *fiber.Ctx) error {
	albumID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid album ID")
	}

	totals, err := h.catalogController.RecalculateAlbum(c.UserContext(), middleware.GetUser(c), albumID)
	if err != nil {
		return h.respondError(c, err, "Failed to recalculate album")
	}

	return c.JSON(fiber.Map{"totals": totals})
}
