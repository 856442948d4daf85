package handlers

import (
	"kaudio/internal/app"
	adminController "kaudio/internal/controllers/admin"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	return &AdminHandler{
		adminController: app.Controllers.Admin,
		Handler: Handler{
			log:        logger.New("handlers").File("admin_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.RequireAuth(), h.middleware.RequireAdmin())
	admin.Post("/reconcile", h.reconcile)
	admin.Post("/jobs/:name/run", h.runJob)
}

// reconcile compares every cached counter with its recomputed value.
// ?repair=true also overwrites the mismatches.
func (h *AdminHandler) reconcile(c *fiber.Ctx) error {
	repair := c.QueryBool("repair", false)

	report, err := h.adminController.Reconcile(c.UserContext(), repair)
	if err != nil {
		return h.respondError(c, err, "Failed to reconcile counters")
	}

	return c.JSON(report)
}

func (h *AdminHandler) runJob(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := h.adminController.RunJob(c.UserContext(), name); err != nil {
		return h.respondError(c, err, "Failed to run job")
	}

	return c.JSON(fiber.Map{"job": name, "status": "completed"})
}
