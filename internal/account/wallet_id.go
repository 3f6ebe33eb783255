package account

import (
	"math/rand"
	"strconv"
)

// Wallet identifiers are 7-digit numeric strings drawn from
// [1000000, 9999999]. The space is large relative to expected account volume;
// uniqueness is still enforced by the store at insert time.
const (
	walletIDMin  = 1_000_000
	walletIDSpan = 9_000_000
)

func drawWalletID() string {
	return strconv.Itoa(walletIDMin + rand.Intn(walletIDSpan))
}
