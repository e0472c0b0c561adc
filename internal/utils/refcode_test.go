package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

func TestNewBookingReferenceFormat(t *testing.T) {
	cases := []struct {
		kind   model.ItemKind
		prefix string
	}{
		{model.ItemKindFlight, "FLT"},
		{model.ItemKindHotel, "HTL"},
		{model.ItemKindCar, "CAR"},
		{model.ItemKind("SOMETHING_ELSE"), "BKG"},
	}
	for _, tc := range cases {
		ref := NewBookingReference(tc.kind)
		assert.Regexp(t, "^"+tc.prefix+`-[0-9A-Z]{6}$`, ref)
	}
}

func TestNewBookingReferenceCollisions(t *testing.T) {
	// 36^6 is about 2.2 billion codes; a few thousand draws colliding would
	// point at a broken random source, not bad luck.
	seen := make(map[string]bool, 5000)
	for i := 0; i < 5000; i++ {
		ref := NewBookingReference(model.ItemKindFlight)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
