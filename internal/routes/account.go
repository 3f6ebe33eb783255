package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hassanalbraa/kingstore/internal/account"
)

// RegisterAccountRoutes wires the public registration and login endpoints.
func RegisterAccountRoutes(r fiber.Router, h *account.Handler, loginLimit fiber.Handler) {
	r.Post("/register", h.Register)
	r.Post("/login", loginLimit, h.Login)
}
