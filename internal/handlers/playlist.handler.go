package handlers

import (
	"kaudio/internal/app"
	playlistController "kaudio/internal/controllers/playlists"
	"kaudio/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PlaylistHandler struct {
	Handler
	playlistController playlistController.PlaylistControllerInterface
}

type PlaylistTrackRequest struct {
	TrackID uuid.UUID `json:"trackId"`
}

type PositionRequest struct {
	Position int `json:"position"`
}

type VisibilityRequest struct {
	IsPublic bool `json:"isPublic"`
}

func NewPlaylistHandler(app app.App, router fiber.Router) *PlaylistHandler {
	return &PlaylistHandler{
		playlistController: app.Controllers.Playlist,
		Handler: Handler{
			log:        logger.New("handlers").File("playlist_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PlaylistHandler) Register() {
	playlists := h.router.Group("/playlists", h.middleware.RequireAuth())
	playlists.Get("/", h.listPlaylists)
	playlists.Get("/mine", h.listMine)
	playlists.Post("/", h.createPlaylist)
	playlists.Get("/:id", h.getPlaylist)
	playlists.Put("/:id", h.updatePlaylist)
	playlists.Delete("/:id", h.deletePlaylist)
	playlists.Put("/:id/visibility", h.setVisibility)
	playlists.Post("/:id/recalculate", h.recalculate)
	playlists.Post("/:id/tracks", h.addTrack)
	playlists.Delete("/:id/tracks/:trackId", h.removeTrack)
	playlists.Put("/:id/tracks/:trackId/position", h.moveTrack)

	h.router.Get("/users/:id/playlists", h.middleware.RequireAuth(), h.listUserPlaylists)
}

func (h *PlaylistHandler) listPlaylists(c *fiber.Ctx) error {
	filter, err := parsePlaylistFilter(c)
	if err != nil {
		return h.respondError(c, err, "Invalid playlist filter")
	}

	playlists, err := h.playlistController.ListVisible(c.UserContext(), middleware.GetUser(c), filter)
	if err != nil {
		return h.respondError(c, err, "Failed to list playlists")
	}

	return c.JSON(fiber.Map{"playlists": playlists})
}

func (h *PlaylistHandler) listUserPlaylists(c *fiber.Ctx) error {
	ownerID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid user ID")
	}

	filter, err := parsePlaylistFilter(c)
	if err != nil {
		return h.respondError(c, err, "Invalid playlist filter")
	}

	playlists, err := h.playlistController.ListByOwner(c.UserContext(), middleware.GetUser(c), ownerID, filter)
	if err != nil {
		return h.respondError(c, err, "Failed to list user playlists")
	}

	return c.JSON(fiber.Map{"playlists": playlists})
}

func (h *PlaylistHandler) listMine(c *fiber.Ctx) error {
	playlists, err := h.playlistController.ListMine(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.respondError(c, err, "Failed to list playlists")
	}

	return c.JSON(fiber.Map{"playlists": playlists})
}

func (h *PlaylistHandler) createPlaylist(c *fiber.Ctx) error {
	var req playlistController.CreatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	playlist, err := h.playlistController.Create(c.UserContext(), middleware.GetUser(c), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create playlist")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"playlist": playlist})
}

func (h *PlaylistHandler) getPlaylist(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid playlist ID")
	}

	playlist, err := h.playlistController.Get(c.UserContext(), middleware.GetUser(c), playlistID)
	if err != nil {
		return h.respondError(c, err, "Failed to get playlist")
	}

	return c.JSON(fiber.Map{"playlist": playlist})
}

func (h *PlaylistHandler) updatePlaylist(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid playlist ID")
	}

	var req playlistController.UpdatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	playlist, err := h.playlistController.Update(c.UserContext(), middleware.GetUser(c), playlistID, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to update playlist")
	}

	return c.JSON(fiber.Map{"playlist": playlist})
}

func (h *PlaylistHandler) deletePlaylist(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid playlist ID")
	}

	if err := h.playlistController.Delete(c.UserContext(), middleware.GetUser(c), playlistID); err != nil {
		return h.respondError(c, err, "Failed to delete playlist")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PlaylistHandler) setVisibility(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid playlist ID")
	}

	var req VisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	playlist, err := h.playlistController.SetVisibility(c.UserContext(), middleware.GetUser(c), playlistID, req.IsPublic)
	if err != nil {
		return h.respondError(c, err, "Failed to update visibility")
	}

	return c.JSON(fiber.Map{"playlist": playlist})
}

func (h *PlaylistHandler) recalculate(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid playlist ID")
	}

	totals, err := h.playlistController.Recalculate(c.UserContext(), middleware.GetUser(c), playlistID)
	if err != nil {
		return h.respondError(c, err, "Failed to recalculate playlist")
	}

	return c.JSON(fiber.Map{"totals": totals})
}

func (h *PlaylistHandler) addTrack(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid playlist ID")
	}

	var req PlaylistTrackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	activity, err := h.playlistController.AddTrack(c.UserContext(), middleware.GetUser(c), playlistID, req.TrackID)
	if err != nil {
		return h.respondError(c, err, "Failed to add track")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"activity": activity})
}

func (h *PlaylistHandler) removeTrack(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid playlist ID")
	}
	trackID, err := paramID(c, "trackId")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	activity, err := h.playlistController.RemoveTrack(c.UserContext(), middleware.GetUser(c), playlistID, trackID)
	if err != nil {
		return h.respondError(c, err, "Failed to remove track")
	}

	return c.JSON(fiber.Map{"activity": activity})
}

func (h *PlaylistHandler) moveTrack(c *fiber.Ctx) error {
	playlistID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid playlist ID")
	}
	trackID, err := paramID(c, "trackId")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	var req PositionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	position, err := h.playlistController.MoveTrack(c.UserContext(), middleware.GetUser(c), playlistID, trackID, req.Position)
	if err != nil {
		return h.respondError(c, err, "Failed to move track")
	}

	return c.JSON(fiber.Map{"position": position})
}
