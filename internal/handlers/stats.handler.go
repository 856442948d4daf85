package handlers

import (
	"kaudio/internal/app"
	statsController "kaudio/internal/controllers/stats"
	"kaudio/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type StatsHandler struct {
	Handler
	statsController statsController.StatsControllerInterface
}

func NewStatsHandler(app app.App, router fiber.Router) *StatsHandler {
	return &StatsHandler{
		statsController: app.Controllers.Stats,
		Handler: Handler{
			log:        logger.New("handlers").File("stats_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *StatsHandler) Register() {
	stats := h.router.Group("/stats")
	stats.Get("/popular-tracks", h.popularTracks)
	stats.Get("/genres", h.genreStatistics)
	stats.Get("/top-artists", h.topArtists)
	stats.Get("/tracks/:id/popularity", h.trackPopularity)
	stats.Get("/tracks/:id/rating", h.trackRating)
	stats.Get("/albums/:id/rating", h.albumRating)
}

func (h *StatsHandler) popularTracks(c *fiber.Ctx) error {
	tracks, err := h.statsController.PopularTracks(
		c.UserContext(),
		c.QueryInt("limit", repositories.DEFAULT_RANKING_LIMIT),
	)
	if err != nil {
		return h.respondError(c, err, "Failed to rank tracks")
	}

	return c.JSON(fiber.Map{"tracks": tracks})
}

func (h *StatsHandler) genreStatistics(c *fiber.Ctx) error {
	genres, err := h.statsController.GenreStatistics(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "Failed to compute genre statistics")
	}

	return c.JSON(fiber.Map{"genres": genres})
}

func (h *StatsHandler) topArtists(c *fiber.Ctx) error {
	artists, err := h.statsController.TopArtists(
		c.UserContext(),
		c.QueryInt("limit", repositories.DEFAULT_RANKING_LIMIT),
	)
	if err != nil {
		return h.respondError(c, err, "Failed to rank artists")
	}

	return c.JSON(fiber.Map{"artists": artists})
}

func (h *StatsHandler) trackPopularity(c *fiber.Ctx) error {
	trackID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	popularity, err := h.statsController.TrackPopularity(c.UserContext(), trackID)
	if err != nil {
		return h.respondError(c, err, "Failed to compute popularity")
	}

	return c.JSON(popularity)
}

func (h *StatsHandler) trackRating(c *fiber.Ctx) error {
	trackID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	rating, err := h.statsController.TrackRating(c.UserContext(), trackID)
	if err != nil {
		return h.respondError(c, err, "Failed to compute rating")
	}

	return c.JSON(rating)
}

func (h *StatsHandler) albumRating(c *fiber.Ctx) error {
	albumID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid album ID")
	}

	rating, err := h.statsController.AlbumRating(c.UserContext(), albumID)
	if err != nil {
		return h.respondError(c, err, "Failed to compute rating")
	}

	return c.JSON(rating)
}
