package handlers

import (
	"errors"
	"kaudio/internal/app"
	authController "kaudio/internal/controllers/auth"
	"kaudio/internal/handlers/middleware"
	"kaudio/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	return &AuthHandler{
		authController: app.Controllers.Auth,
		Handler: Handler{
			log:        logger.New("handlers").File("auth_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")
	auth.Post("/register", h.register)
	auth.Post("/login", h.login)
	auth.Post("/logout", h.middleware.RequireAuth(), h.logout)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var req authController.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	response, err := h.authController.Register(c.UserContext(), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to register")
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req authController.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	response, err := h.authController.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
		}
		return h.respondError(c, err, "Failed to log in")
	}

	return c.JSON(response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if err := h.authController.Logout(c.UserContext(), middleware.GetToken(c)); err != nil {
		return h.respondError(c, err, "Failed to log out")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
