package account

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hassanalbraa/kingstore/internal/auth"
)

// Handler exposes registration, login and profile endpoints.
type Handler struct {
	service *Service
	tokens  *auth.Service
}

// NewHandler constructs an account HTTP handler.
func NewHandler(service *Service, tokens *auth.Service) *Handler {
	return &Handler{service: service, tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccountID   string `json:"account_id"`
	Username    string `json:"username"`
	WalletID    string `json:"wallet_id"`
	Balance     int64  `json:"balance"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Register opens an account, allocates its wallet identifier and logs the
// user straight in.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	acc, err := h.service.Register(c.UserContext(), RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			return fiber.NewError(http.StatusConflict, "email already registered")
		case errors.Is(err, ErrAllocationExhausted):
			return fiber.NewError(http.StatusServiceUnavailable, "registration temporarily unavailable")
		default:
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}
	return h.session(c, http.StatusCreated, acc)
}

// Login validates credentials and returns an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	acc, err := h.service.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, "invalid email or password")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return h.session(c, http.StatusOK, acc)
}

// Me returns the authenticated account's profile including the live balance.
func (h *Handler) Me(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	acc, err := h.service.Get(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "account not found")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"account_id": acc.ID,
		"username":   acc.Username,
		"email":      acc.Email,
		"wallet_id":  acc.WalletID,
		"balance":    acc.Balance,
		"role":       acc.Role,
		"created_at": acc.CreatedAt,
	})
}

func (h *Handler) session(c *fiber.Ctx, status int, acc Account) error {
	token, err := h.tokens.Issue(acc.ID, acc.Role)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(status).JSON(sessionResponse{
		AccountID:   acc.ID,
		Username:    acc.Username,
		WalletID:    acc.WalletID,
		Balance:     acc.Balance,
		Role:        acc.Role,
		AccessToken: token.AccessToken,
		ExpiresIn:   token.ExpiresIn,
	})
}
