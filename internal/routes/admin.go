package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hassanalbraa/kingstore/internal/catalog"
	"github.com/hassanalbraa/kingstore/internal/fulfillment"
)

// RegisterAdminRoutes wires the operator endpoints. Callers must mount these
// behind the admin-role middleware.
func RegisterAdminRoutes(r fiber.Router, offers *catalog.Handler, orders *fulfillment.Handler) {
	r.Post("/fund", orders.Fund)

	r.Get("/orders/pending", orders.Pending)
	r.Post("/orders/:orderId/complete", orders.Complete)
	r.Post("/orders/:orderId/fail", orders.Fail)

	r.Post("/offers", offers.Create)
	r.Put("/offers/:offerId", offers.Update)
}
