package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shareit/internal/api/dto"
	"github.com/spec-kit/shareit/internal/auth"
	"github.com/spec-kit/shareit/internal/domain"
	apperrors "github.com/spec-kit/shareit/pkg/util/errorutil"
)

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}

func callerID(c *fiber.Ctx) (int64, error) {
	id, ok := auth.UserIDFromContext(c)
	if !ok {
		return 0, apperrors.NewValidationError("caller identity required", nil)
	}
	return id, nil
}

// parsePage reads from and size, falling back to 0 and defaultSize.
func parsePage(c *fiber.Ctx, defaultSize int) (domain.Page, error) {
	from, err := queryInt(c, "from", 0)
	if err != nil {
		return domain.Page{}, err
	}
	size, err := queryInt(c, "size", defaultSize)
	if err != nil {
		return domain.Page{}, err
	}
	page, err := domain.NewPage(from, size)
	if err != nil {
		return domain.Page{}, apperrors.NewValidationError(err.Error(), map[string]any{"from": from, "size": size})
	}
	return page, nil
}

func queryInt(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid "+key, map[string]any{key: raw})
	}
	return val, nil
}

func parseBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(req)
}
