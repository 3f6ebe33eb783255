package fulfillment

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hassanalbraa/kingstore/internal/account"
	"github.com/hassanalbraa/kingstore/internal/catalog"
	"github.com/hassanalbraa/kingstore/internal/order"
)

// Handler exposes fulfillment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a fulfillment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type purchaseRequest struct {
	OfferID    string `json:"offer_id"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

type topUpRequest struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

type transferRequest struct {
	Amount       int64  `json:"amount"`
	DestWalletID string `json:"dest_wallet_id"`
	DestName     string `json:"dest_name"`
}

type receiptResponse struct {
	OrderID    string    `json:"order_id"`
	NewBalance int64     `json:"new_balance"`
	CreatedAt  time.Time `json:"created_at"`
}

// Purchase processes a catalog offer purchase for the authenticated user.
func (h *Handler) Purchase(c *fiber.Ctx) error {
	var req purchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	receipt, err := h.service.Purchase(c.UserContext(), PurchaseInput{
		AccountID:  uid,
		OfferID:    req.OfferID,
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(receiptResponse{
		OrderID:    receipt.OrderID,
		NewBalance: receipt.NewBalance,
		CreatedAt:  receipt.CreatedAt,
	})
}

// TopUp records a top-up request for the authenticated user.
func (h *Handler) TopUp(c *fiber.Ctx) error {
	var req topUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	receipt, err := h.service.TopUpRequest(c.UserContext(), TopUpInput{
		AccountID: uid,
		Amount:    req.Amount,
		Note:      req.Note,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(receiptResponse{
		OrderID:    receipt.OrderID,
		NewBalance: receipt.NewBalance,
		CreatedAt:  receipt.CreatedAt,
	})
}

// Transfer records a credit transfer request for the authenticated user.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	receipt, err := h.service.TransferRequest(c.UserContext(), TransferInput{
		AccountID:    uid,
		Amount:       req.Amount,
		DestWalletID: req.DestWalletID,
		DestName:     req.DestName,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(receiptResponse{
		OrderID:    receipt.OrderID,
		NewBalance: receipt.NewBalance,
		CreatedAt:  receipt.CreatedAt,
	})
}

// Orders lists the authenticated user's orders, newest first.
func (h *Handler) Orders(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	orders, err := h.service.Orders(c.UserContext(), uid)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"orders": renderOrders(orders)})
}

// Statement lists the authenticated user's ledger entries, newest first.
func (h *Handler) Statement(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	entries, err := h.service.Statement(c.UserContext(), uid)
	if err != nil {
		return mapError(err)
	}
	out := make([]fiber.Map, 0, len(entries))
	for _, entry := range entries {
		out = append(out, fiber.Map{
			"id":          entry.ID,
			"kind":        entry.Kind,
			"amount":      entry.Amount,
			"description": entry.Description,
			"created_at":  entry.CreatedAt,
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"transactions": out})
}

type fundRequest struct {
	WalletID string `json:"wallet_id"`
	Amount   int64  `json:"amount"`
}

// Fund credits an account located by wallet identifier (admin only).
func (h *Handler) Fund(c *fiber.Ctx) error {
	var req fundRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	newBalance, err := h.service.AdminFund(c.UserContext(), req.WalletID, req.Amount)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"wallet_id":   req.WalletID,
		"new_balance": newBalance,
	})
}

// Pending lists the fulfillment queue across all accounts (admin only).
func (h *Handler) Pending(c *fiber.Ctx) error {
	orders, err := h.service.PendingOrders(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"orders": renderOrders(orders)})
}

// Complete marks a pending order fulfilled (admin only).
func (h *Handler) Complete(c *fiber.Ctx) error {
	if err := h.service.CompleteOrder(c.UserContext(), c.Params("orderId")); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": order.StatusCompleted})
}

// Fail marks a pending order failed and refunds the debit (admin only).
func (h *Handler) Fail(c *fiber.Ctx) error {
	if err := h.service.FailOrder(c.UserContext(), c.Params("orderId")); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": order.StatusFailed})
}

func renderOrders(orders []order.Order) []fiber.Map {
	out := make([]fiber.Map, 0, len(orders))
	for _, o := range orders {
		m := fiber.Map{
			"id":          o.ID,
			"account_id":  o.AccountID,
			"username":    o.Username,
			"wallet_id":   o.WalletID,
			"kind":        o.Kind,
			"amount":      o.Amount,
			"status":      o.Status,
			"description": o.Description(),
			"created_at":  o.CreatedAt,
		}
		switch {
		case o.Purchase != nil:
			m["purchase"] = o.Purchase
		case o.Transfer != nil:
			m["transfer"] = o.Transfer
		case o.TopUp != nil:
			m["topup"] = o.TopUp
		}
		out = append(out, m)
	}
	return out
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return fiber.NewError(http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, ErrIncompleteInput):
		return fiber.NewError(http.StatusBadRequest, "missing required fields")
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, "amount must be positive")
	case errors.Is(err, ErrWalletNotFound):
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	case errors.Is(err, catalog.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "offer not found")
	case errors.Is(err, order.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrNotPending):
		return fiber.NewError(http.StatusConflict, "order already resolved")
	case errors.Is(err, account.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "account not found")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
