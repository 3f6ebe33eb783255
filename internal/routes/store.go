package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hassanalbraa/kingstore/internal/account"
	"github.com/hassanalbraa/kingstore/internal/catalog"
	"github.com/hassanalbraa/kingstore/internal/fulfillment"
)

// RegisterStoreRoutes wires the authenticated storefront endpoints.
func RegisterStoreRoutes(r fiber.Router, accounts *account.Handler, offers *catalog.Handler, orders *fulfillment.Handler) {
	r.Get("/me", accounts.Me)
	r.Get("/offers", offers.List)
	r.Get("/offers/grouped", offers.Grouped)

	r.Post("/orders/purchase", orders.Purchase)
	r.Post("/orders/topup", orders.TopUp)
	r.Post("/orders/transfer", orders.Transfer)
	r.Get("/orders", orders.Orders)

	r.Get("/transactions", orders.Statement)
}
