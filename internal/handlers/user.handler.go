package handlers

import (
	"kaudio/internal/app"
	userController "kaudio/internal/controllers/users"
	"kaudio/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		userController: app.Controllers.User,
		Handler: Handler{
			log:        logger.New("handlers").File("user_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth())
	users.Get("/me", h.getCurrentUser)

	admin := h.router.Group("/admin/users", h.middleware.RequireAuth(), h.middleware.RequireAdmin())
	admin.Get("/", h.listUsers)
	admin.Put("/:id/role", h.setRole)
	admin.Delete("/:id", h.deleteUser)
}

func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	return c.JSON(fiber.Map{
		"user": h.userController.Me(c.UserContext(), user),
	})
}

func (h *UserHandler) listUsers(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	users, err := h.userController.List(c.UserContext(), limit, offset)
	if err != nil {
		return h.respondError(c, err, "Failed to list users")
	}

	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) setRole(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid user ID")
	}

	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.userController.SetRole(c.UserContext(), middleware.GetUser(c), userID, req.Role)
	if err != nil {
		return h.respondError(c, err, "Failed to update role")
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) deleteUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return h.respondError(c, err, "Invalid user ID")
	}

	if err := h.userController.Delete(c.UserContext(), middleware.GetUser(c), userID); err != nil {
		return h.respondError(c, err, "Failed to delete user")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
