package handlers

import (
	"kaudio/internal/app"
	subscriptionController "kaudio/internal/controllers/subscriptions"
	"kaudio/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type SubscriptionHandler struct {
	Handler
	subscriptionController subscriptionController.SubscriptionControllerInterface
}

func NewSubscriptionHandler(app app.App, router fiber.Router) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionController: app.Controllers.Subscription,
		Handler: Handler{
			log:        logger.New("handlers").File("subscription_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SubscriptionHandler) Register() {
	subscriptions := h.router.Group("/subscriptions")
	subscriptions.Get("/plans", h.listPlans)

	protected := subscriptions.Group("/", h.middleware.RequireAuth())
	protected.Get("/me", h.listMine)
	protected.Post("/", h.subscribe)
	protected.Delete("/:id", h.cancel)

	admin := h.router.Group(
		"/admin/subscriptions",
		h.middleware.RequireAuth(),
		h.middleware.RequireAdmin(),
	)
	admin.Post("/plans", h.createPlan)
	admin.Put("/plans/:id", h.updatePlan)
}

func (h *SubscriptionHandler) listPlans(c *fiber.Ctx) error {
	plans, err := h.subscriptionController.ListPlans(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "Failed to list plans")
	}

	return c.JSON(fiber.Map{"plans": plans})
}

func (h *SubscriptionHandler) listMine(c *fiber.Ctx) error {
	response, err := h.subscriptionController.ListMine(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.respondError(c, err, "Failed to list subscriptions")
	}

	return c.JSON(response)
}

func (h *SubscriptionHandler) subscribe(c *fiber.Ctx) error {
	var req subscriptionController.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	subscription, err := h.subscriptionController.Subscribe(c.UserContext(), middleware.GetUser(c), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to subscribe")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"subscription": subscription})
}

func (h *SubscriptionHandler) cancel(c *fiber.Ctx) error {
	subscriptionID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid subscription ID")
	}

	subscription, err := h.subscriptionController.Cancel(c.UserContext(), middleware.GetUser(c), subscriptionID)
	if err != nil {
		return h.respondError(c, err, "Failed to cancel subscription")
	}

	return c.JSON(fiber.Map{"subscription": subscription})
}

func (h *SubscriptionHandler) createPlan(c *fiber.Ctx) error {
	var req subscriptionController.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	plan, err := h.subscriptionController.CreatePlan(c.UserContext(), middleware.GetUser(c), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create plan")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"plan": plan})
}

func (h *SubscriptionHandler) updatePlan(c *fiber.Ctx) error {
	planID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid plan ID")
	}

	var req subscriptionController.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	plan, err := h.subscriptionController.UpdatePlan(c.UserContext(), middleware.GetUser(c), planID, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to update plan")
	}

	return c.JSON(fiber.Map{"plan": plan})
}
