package handlers

import (
	"kaudio/internal/app"
	catalogController "kaudio/internal/controllers/catalog"
	"kaudio/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type ArtistHandler struct {
	Handler
	catalogController catalogController.CatalogControllerInterface
}

type VerifyRequest struct {
	Verified bool `json:"verified"`
}

func NewArtistHandler(app app.App, router fiber.Router) *ArtistHandler {
	return &ArtistHandler{
		catalogController: app.Controllers.Catalog,
		Handler: Handler{
			log:        logger.New("handlers").File("artist_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ArtistHandler) Register() {
	auth := h.middleware.RequireAuth()

	artists := h.router.Group("/artists")
	artists.Get("/", h.listArtists)
	artists.Get("/:id", h.getArtist)
	artists.Post("/", auth, h.createArtist)
	artists.Put("/:id", auth, h.updateArtist)
	artists.Delete("/:id", auth, h.deleteArtist)
	artists.Put("/:id/verify", auth, h.verifyArtist)
}

func (h *ArtistHandler) listArtists(c *fiber.Ctx) error {
	filter, err := parseArtistFilter(c)
	if err != nil {
		return h.respondError(c, err, "Invalid artist filter")
	}

	artists, err := h.catalogController.ListArtists(c.UserContext(), filter)
	if err != nil {
		return h.respondError(c, err, "Failed to list artists")
	}

	return c.JSON(fiber.Map{"artists": artists})
}

func (h *ArtistHandler) getArtist(c *fiber.Ctx) error {
	artistID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid artist ID")
	}

	artist, err := h.catalogController.GetArtist(c.UserContext(), artistID)
	if err != nil {
		return h.respondError(c, err, "Failed to get artist")
	}

	return c.JSON(fiber.Map{"artist": artist})
}

func (h *ArtistHandler) createArtist(c *fiber.Ctx) error {
	var req catalogController.ArtistRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	artist, err := h.catalogController.CreateArtist(c.UserContext(), middleware.GetUser(c), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create artist")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"artist": artist})
}

func (h *ArtistHandler) updateArtist(c *fiber.Ctx) error {
	artistID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid artist ID")
	}

	var req catalogController.ArtistRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	artist, err := h.catalogController.UpdateArtist(c.UserContext(), middleware.GetUser(c), artistID, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to update artist")
	}

	return c.JSON(fiber.Map{"artist": artist})
}

func (h *ArtistHandler) deleteArtist(c *fiber.Ctx) error {
	artistID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid artist ID")
	}

	if err := h.catalogController.DeleteArtist(c.UserContext(), middleware.GetUser(c), artistID); err != nil {
		return h.respondError(c, err, "Failed to delete artist")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ArtistHandler) verifyArtist(c *fiber.Ctx) error {
	artistID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid artist ID")
	}

	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	artist, err := h.catalogController.VerifyArtist(c.UserContext(), middleware.GetUser(c), artistID, req.Verified)
	if err != nil {
		return h.respondError(c, err, "Failed to verify artist")
	}

	return c.JSON(fiber.Map{"artist": artist})
}
