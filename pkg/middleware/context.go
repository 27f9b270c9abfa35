package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// BaseContext makes ctx the user context of every request, so cancelling
// ctx on shutdown stops the work handlers started from c.UserContext().
func BaseContext(ctx context.Context) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(ctx)
		return c.Next()
	}
}
