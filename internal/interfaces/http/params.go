package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/perfumes-admin-api/internal/domain"
)

// paramID lee :id como entero positivo.
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "debe ser un entero positivo")
	}
	return id, nil
}

func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.Invalid(key, "debe ser un entero")
	}
	return &v, nil
}

func queryInt(c *fiber.Ctx, key string) (*int, error) {
	v, err := queryInt64(c, key)
	if err != nil || v == nil {
		return nil, err
	}
	n := int(*v)
	return &n, nil
}

func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Invalid(key, "debe ser true o false")
	}
	return &v, nil
}
