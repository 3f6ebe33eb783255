package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"

	// maxRequestIDLen caps client-supplied identifiers so the audit log
	// cannot be stuffed with arbitrarily large header values.
	maxRequestIDLen = 64
)

// RequestID tags every request with an identifier that the audit middleware
// and error logs carry through. A sane client-provided value is kept so IDs
// stay stable across the storefront and this service; anything missing or
// oversized is replaced with a fresh UUID. The value is echoed on the
// response either way.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(requestIDHeader)
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.NewString()
		}
		c.Set(requestIDHeader, reqID)
		c.Locals(requestIDHeader, reqID)
		return c.Next()
	}
}
