package handlers

import (
	"kaudio/internal/app"
	reviewController "kaudio/internal/controllers/reviews"
	"kaudio/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Handler
	reviewController reviewController.ReviewControllerInterface
}

func NewReviewHandler(app app.App, router fiber.Router) *ReviewHandler {
	return &ReviewHandler{
		reviewController: app.Controllers.Review,
		Handler: Handler{
			log:        logger.New("handlers").File("review_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReviewHandler) Register() {
	auth := h.middleware.RequireAuth()

	reviews := h.router.Group("/reviews")
	reviews.Get("/tracks/:trackId", h.listTrackReviews)
	reviews.Post("/tracks/:trackId", auth, h.createTrackReview)
	reviews.Get("/albums/:albumId", h.listAlbumReviews)
	reviews.Post("/albums/:albumId", auth, h.createAlbumReview)
	reviews.Put("/:kind/:id", auth, h.updateReview)
	reviews.Delete("/:kind/:id", auth, h.deleteReview)
}

func (h *ReviewHandler) listTrackReviews(c *fiber.Ctx) error {
	trackID, err := paramID(c, "trackId")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	reviews, err := h.reviewController.ListTrackReviews(c.UserContext(), trackID)
	if err != nil {
		return h.respondError(c, err, "Failed to list reviews")
	}

	return c.JSON(fiber.Map{"reviews": reviews})
}

func (h *ReviewHandler) createTrackReview(c *fiber.Ctx) error {
	trackID, err := paramID(c, "trackId")
	if err != nil {
		return h.respondError(c, err, "Invalid track ID")
	}

	var req reviewController.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	review, err := h.reviewController.CreateTrackReview(c.UserContext(), middleware.GetUser(c), trackID, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create review")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review})
}

func (h *ReviewHandler) listAlbumReviews(c *fiber.Ctx) error {
	albumID, err := paramID(c, "albumId")
	if err != nil {
		return h.respondError(c, err, "Invalid album ID")
	}

	reviews, err := h.reviewController.ListAlbumReviews(c.UserContext(), albumID)
	if err != nil {
		return h.respondError(c, err, "Failed to list reviews")
	}

	return c.JSON(fiber.Map{"reviews": reviews})
}

func (h *ReviewHandler) createAlbumReview(c *fiber.Ctx) error {
	albumID, err := paramID(c, "albumId")
	if err != nil {
		return h.respondError(c, err, "Invalid album ID")
	}

	var req reviewController.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	review, err := h.reviewController.CreateAlbumReview(c.UserContext(), middleware.GetUser(c), albumID, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create review")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review})
}

func (h *ReviewHandler) updateReview(c *fiber.Ctx) error {
	reviewID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid review ID")
	}

	var req reviewController.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	kind := reviewController.Kind(c.Params("kind"))
	review, err := h.reviewController.UpdateReview(c.UserContext(), middleware.GetUser(c), kind, reviewID, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to update review")
	}

	return c.JSON(fiber.Map{"review": review})
}

func (h *ReviewHandler) deleteReview(c *fiber.Ctx) error {
	reviewID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid review ID")
	}

	kind := reviewController.Kind(c.Params("kind"))
	if err := h.reviewController.DeleteReview(c.UserContext(), middleware.GetUser(c), kind, reviewID); err != nil {
		return h.respondError(c, err, "Failed to delete review")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
