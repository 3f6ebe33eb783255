package account

import (
	"strconv"
	"testing"
)

func TestDrawWalletIDRange(t *testing.T) {
	for i := 0; i < 1_000; i++ {
		id := drawWalletID()
		if len(id) != 7 {
			t.Fatalf("expected 7 digit wallet id, got %q", id)
		}
		n, err := strconv.Atoi(id)
		if err != nil {
			t.Fatalf("wallet id %q is not numeric: %v", id, err)
		}
		if n < 1_000_000 || n > 9_999_999 {
			t.Fatalf("wallet id %d outside range", n)
		}
	}
}
