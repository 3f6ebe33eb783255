package catalog

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes catalog endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a catalog HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type offerRequest struct {
	GameName  string `json:"game_name"`
	OfferName string `json:"offer_name"`
	Price     int64  `json:"price"`
	Unit      string `json:"unit"`
	SortOrder int    `json:"sort_order"`
}

type offerResponse struct {
	ID        string `json:"id"`
	GameName  string `json:"game_name"`
	OfferName string `json:"offer_name"`
	Price     int64  `json:"price"`
	Unit      string `json:"unit"`
	SortOrder int    `json:"sort_order"`
}

// List returns offers grouped by game in display order.
func (h *Handler) List(c *fiber.Ctx) error {
	offers, err := h.service.List(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]offerResponse, 0, len(offers))
	for _, offer := range offers {
		out = append(out, renderOffer(offer))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"offers": out})
}

// Grouped returns offers bucketed by game for the storefront dashboard.
func (h *Handler) Grouped(c *fiber.Ctx) error {
	grouped, err := h.service.GroupedByGame(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make(map[string][]offerResponse, len(grouped))
	for game, offers := range grouped {
		entries := make([]offerResponse, 0, len(offers))
		for _, offer := range offers {
			entries = append(entries, renderOffer(offer))
		}
		out[game] = entries
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"games": out})
}

// Create adds a catalog offer (admin only).
func (h *Handler) Create(c *fiber.Ctx) error {
	var req offerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	offer, err := h.service.Create(c.UserContext(), OfferInput(req))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(renderOffer(offer))
}

// Update edits an existing offer (admin only).
func (h *Handler) Update(c *fiber.Ctx) error {
	var req offerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	offer, err := h.service.Update(c.UserContext(), c.Params("offerId"), OfferInput(req))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "offer not found")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(renderOffer(offer))
}

func renderOffer(offer Offer) offerResponse {
	return offerResponse{
		ID:        offer.ID,
		GameName:  offer.GameName,
		OfferName: offer.OfferName,
		Price:     offer.Price,
		Unit:      offer.Unit,
		SortOrder: offer.SortOrder,
	}
}
