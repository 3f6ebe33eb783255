package catalog

import (
	"context"
	"testing"
)

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	cases := []struct {
		name  string
		input OfferInput
	}{
		{"missing game name", OfferInput{OfferName: "100 💎", Price: 3400}},
		{"missing offer name", OfferInput{GameName: "Free Fire", Price: 3400}},
		{"zero price", OfferInput{GameName: "Free Fire", OfferName: "100 💎", Price: 0}},
		{"negative price", OfferInput{GameName: "Free Fire", OfferName: "100 💎", Price: -100}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.input); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}

	if _, err := svc.Create(ctx, OfferInput{GameName: "Free Fire", OfferName: "100 💎", Price: 3400, Unit: "💎"}); err != nil {
		t.Fatalf("valid offer rejected: %v", err)
	}
}
