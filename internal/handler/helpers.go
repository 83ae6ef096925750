package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/essay-api/internal/service"
)

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func localString(c *fiber.Ctx, key string) string {
	if v := c.Locals(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// actorFromContext assembles the service-level caller identity from the locals
// placed by the authentication middleware.
func actorFromContext(c *fiber.Ctx) service.Actor {
	return service.Actor{
		ID:      userIDFromContext(c),
		Email:   localString(c, "user_email"),
		Role:    localString(c, "user_role"),
		Section: localString(c, "user_section"),
	}
}

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}
