package auth

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shareit/internal/observability"
	apperrors "github.com/spec-kit/shareit/pkg/util/errorutil"
)

const userIDKey = "sharer_user_id"

// RequireUser reads the caller id that the gateway puts in the X-Sharer-User-Id header.
// Existence of the user is checked by the services, not here.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get(observability.UserIDHeader))
		if raw == "" {
			return apperrors.NewValidationError("missing "+observability.UserIDHeader+" header", nil)
		}
		id, ok := ParseUserID(raw)
		if !ok {
			return apperrors.NewValidationError("invalid "+observability.UserIDHeader+" header", map[string]any{"value": raw})
		}
		c.Locals(userIDKey, id)
		return c.Next()
	}
}

// ParseUserID parses a header value as a positive user id.
func ParseUserID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// UserIDFromContext retrieves the caller id stored by RequireUser.
func UserIDFromContext(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(userIDKey).(int64)
	return id, ok
}
