package handlers

import (
	"errors"
	"kaudio/internal/handlers/middleware"
	"kaudio/internal/types"
	"kaudio/internal/utils"
	"strconv"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	DEFAULT_PAGE_LIMIT = 50
	MAX_PAGE_LIMIT     = 200
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

// statusFor maps the domain sentinel errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, types.ErrPermission):
		return fiber.StatusForbidden
	case errors.Is(err, types.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the error body. Internal failures are logged with the
// trace ID and reported with a generic message.
func (h *Handler) respondError(c *fiber.Ctx, err error, fallback string) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		h.log.Function("respondError").
			TraceFromContext(c.UserContext()).
			Er(fallback, err, "path", c.Path(), "method", c.Method())
		return c.Status(status).JSON(fiber.Map{"error": fallback})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, types.Wrap(types.ErrValidation, "invalid %s", name)
	}
	return id, nil
}

func queryID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, types.Wrap(types.ErrValidation, "invalid %s", name)
	}
	return &id, nil
}

func queryBool(c *fiber.Ctx, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, types.Wrap(types.ErrValidation, "invalid %s", name)
	}
	return &value, nil
}

func queryInt(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return nil, types.Wrap(types.ErrValidation, "invalid %s", name)
	}
	return &value, nil
}

func queryFloat(c *fiber.Ctx, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, types.Wrap(types.ErrValidation, "invalid %s", name)
	}
	return &value, nil
}

// queryDate accepts the release date formats. endOfDay moves the result to
// the last instant of that day so an upper bound includes the whole day.
func queryDate(c *fiber.Ctx, name string, endOfDay bool) (*time.Time, error) {
	parsed, err := utils.ParseOptionalDate(c.Query(name))
	if err != nil {
		return nil, types.Wrap(types.ErrValidation, "invalid %s", name)
	}
	if parsed != nil && endOfDay {
		end := parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
		parsed = &end
	}
	return parsed, nil
}

// firstQuery returns the first non-empty value among the aliases.
func firstQuery(c *fiber.Ctx, names ...string) string {
	for _, name := range names {
		if value := c.Query(name); value != "" {
			return value
		}
	}
	return ""
}

func pagination(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", DEFAULT_PAGE_LIMIT)
	if limit <= 0 {
		limit = DEFAULT_PAGE_LIMIT
	}
	limit = min(limit, MAX_PAGE_LIMIT)

	return limit, max(c.QueryInt("offset", 0), 0)
}
