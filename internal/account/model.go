package account

import "time"

const (
	// RoleUser is the default role assigned at registration.
	RoleUser = "user"
	// RoleAdmin marks the store operator account.
	RoleAdmin = "admin"
)

// Account represents one store customer or the administrator. The balance is
// held in minor currency units and is only ever mutated through
// Repository.AdjustBalance.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
	WalletID     string
	Balance      int64
	Role         string
	CreatedAt    time.Time
}

// IsAdmin reports whether the account may perform operator actions.
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
