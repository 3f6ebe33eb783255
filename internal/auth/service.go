package auth

import (
	"time"

	"github.com/hassanalbraa/kingstore/internal/config"
)

// Service issues access tokens for authenticated accounts.
type Service struct {
	cfg config.Config
}

// NewService creates a token-issuing service.
func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// Token is an issued access token with its lifetime in seconds.
type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Issue signs an access token carrying the account identity and role.
func (s *Service) Issue(accountID, role string) (Token, error) {
	now := time.Now()
	claims := map[string]any{
		"sub":  accountID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.AccessTokenTTL).Unix(),
	}
	signed, err := SignHS256(claims, []byte(s.cfg.JWTSecret))
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, ExpiresIn: int64(s.cfg.AccessTokenTTL.Seconds())}, nil
}

// Claims describes the verified content of an access token.
type Claims struct {
	AccountID string
	Role      string
}

// Verify checks the token signature and expiry and extracts the claims.
func (s *Service) Verify(token string) (Claims, error) {
	raw, err := ParseAndVerifyHS256(token, []byte(s.cfg.JWTSecret))
	if err != nil {
		return Claims{}, err
	}
	// A token without an expiry would be valid forever; treat it as forged.
	exp, ok := raw["exp"].(float64)
	if !ok || exp <= 0 || time.Now().Unix() > int64(exp) {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := raw["sub"].(string)
	role, _ := raw["role"].(string)
	if sub == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{AccountID: sub, Role: role}, nil
}
