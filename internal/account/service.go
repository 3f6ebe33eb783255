package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// maxWalletIDAttempts bounds redraws when a drawn wallet identifier collides
// with an existing account. Hitting the bound implies the identifier space is
// close to exhausted and is treated as an operational anomaly.
const maxWalletIDAttempts = 5

var (
	// ErrAllocationExhausted indicates repeated wallet identifier collisions.
	// Registration should be paused pending operator attention.
	ErrAllocationExhausted = errors.New("wallet id space exhausted")

	// ErrInvalidCredentials covers both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service manages account lifecycle: registration with wallet identifier
// allocation, and credential verification.
type Service struct {
	repo       Repository
	adminEmail string
	logger     *slog.Logger
}

// NewService creates an account service. Accounts registering with adminEmail
// receive the admin role.
func NewService(repo Repository, adminEmail string, logger *slog.Logger) *Service {
	return &Service{repo: repo, adminEmail: strings.ToLower(adminEmail), logger: logger}
}

// RegisterInput captures data required to open an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates an account with a zero balance and a freshly allocated
// wallet identifier. The repository insert doubles as the uniqueness
// reservation: on a wallet collision the identifier is redrawn and the insert
// retried, so two concurrent registrations can never end up sharing an ID.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Account, error) {
	if input.Username == "" {
		return Account{}, fmt.Errorf("username is required")
	}
	if input.Email == "" {
		return Account{}, fmt.Errorf("email is required")
	}
	if len(input.Password) < 6 {
		return Account{}, fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	role := RoleUser
	if s.adminEmail != "" && email == s.adminEmail {
		role = RoleAdmin
	}

	acc := Account{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        email,
		PasswordHash: hash,
		Balance:      0,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	for attempt := 1; ; attempt++ {
		acc.WalletID = drawWalletID()
		err := s.repo.Create(ctx, acc)
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, ErrWalletIDTaken) {
			return Account{}, err
		}
		if attempt >= maxWalletIDAttempts {
			if s.logger != nil {
				s.logger.Error("wallet id allocation exhausted",
					slog.Int("attempts", attempt),
					slog.String("email", email),
				)
			}
			return Account{}, ErrAllocationExhausted
		}
	}
}

// Authenticate verifies login credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Account, error) {
	acc, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return acc, nil
}

// Get fetches an account by internal identifier.
func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.repo.FindByID(ctx, id)
}
