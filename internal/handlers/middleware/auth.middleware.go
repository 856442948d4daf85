package middleware

import (
	"context"
	. "kaudio/internal/models"
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AuthContextKey string

const (
	UserKey       AuthContextKey = "user"
	UserKeyFiber  string         = "User"
	TokenKeyFiber string         = "Token"
)

// RequireAuth accepts "Authorization: Bearer <jwt>" and stores the resolved
// user in both the fiber locals and the request context.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequireAuth")

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token = strings.TrimSpace(token)
		user, err := m.auth.Authenticate(c.UserContext(), token)
		if err != nil {
			log.Info("token rejected", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(UserKeyFiber, user)
		c.Locals(TokenKeyFiber, token)
		c.SetUserContext(context.WithValue(c.UserContext(), UserKey, user))

		return c.Next()
	}
}

func GetUser(c *fiber.Ctx) *User {
	user, ok := c.Locals(UserKeyFiber).(*User)
	if !ok {
		return nil
	}
	return user
}

// GetToken returns the raw bearer token accepted by RequireAuth.
func GetToken(c *fiber.Ctx) string {
	token, _ := c.Locals(TokenKeyFiber).(string)
	return token
}
