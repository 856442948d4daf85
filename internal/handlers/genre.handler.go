package handlers

import (
	"kaudio/internal/app"
	catalogController "kaudio/internal/controllers/catalog"
	"kaudio/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type GenreHandler struct {
	Handler
	catalogController catalogController.CatalogControllerInterface
}

func NewGenreHandler(app app.App, router fiber.Router) *GenreHandler {
	return &GenreHandler{
		catalogController: app.Controllers.Catalog,
		Handler: Handler{
			log:        logger.New("handlers").File("genre_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *GenreHandler) Register() {
	genres := h.router.Group("/genres")
	genres.Get("/", h.listGenres)
	genres.Get("/:id", h.getGenre)
	genres.Get("/:id/albums", h.listGenreAlbums)
	genres.Get("/:id/tracks", h.listGenreTracks)
	genres.Post("/", h.middleware.RequireAuth(), h.middleware.RequireAdmin(), h.createGenre)
}

func (h *GenreHandler) listGenres(c *fiber.Ctx) error {
	genres, err := h.catalogController.ListGenres(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "Failed to list genres")
	}

	return c.JSON(fiber.Map{"genres": genres})
}

func (h *GenreHandler) getGenre(c *fiber.Ctx) error {
	genreID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid genre ID")
	}

	genre, err := h.catalogController.GetGenre(c.UserContext(), genreID)
	if err != nil {
		return h.respondError(c, err, "Failed to get genre")
	}

	return c.JSON(fiber.Map{"genre": genre})
}

func (h *GenreHandler) listGenreAlbums(c *fiber.Ctx) error {
	genreID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid genre ID")
	}

	filter, err := parseAlbumFilter(c)
	if err != nil {
		return h.respondError(c, err, "Invalid album filter")
	}

	albums, err := h.catalogController.ListGenreAlbums(c.UserContext(), genreID, filter)
	if err != nil {
		return h.respondError(c, err, "Failed to list genre albums")
	}

	return c.JSON(fiber.Map{"albums": albums})
}

func (h *GenreHandler) listGenreTracks(c *fiber.Ctx) error {
	genreID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid genre ID")
	}

	filter, err := parseTrackFilter(c)
	if err != nil {
		return h.respondError(c, err, "Invalid track filter")
	}

	tracks, err := h.catalogController.ListGenreTracks(c.UserContext(), genreID, filter)
	if err != nil {
		return h.respondError(c, err, "Failed to list genre tracks")
	}

	return c.JSON(fiber.Map{"tracks": tracks})
}

func (h *GenreHandler) createGenre(c *fiber.Ctx) error {
	var req catalogController.GenreRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	genre, err := h.catalogController.CreateGenre(c.UserContext(), middleware.GetUser(c), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create genre")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"genre": genre})
}
