package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// pathParam возвращает декодированный параметр пути ("Out%20of%20Order", "GB%2FT")
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
