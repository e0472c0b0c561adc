package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// refAlphabet is base-36 uppercase: unambiguous enough for support calls
// while keeping references short.
const refAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const refLength = 6

// kindPrefix maps an item kind to its reference prefix.
func kindPrefix(kind model.ItemKind) string {
	switch kind {
	case model.ItemKindFlight:
		return "FLT"
	case model.ItemKindHotel:
		return "HTL"
	case model.ItemKindCar:
		return "CAR"
	default:
		return "BKG"
	}
}

// NewBookingReference returns a human-shareable booking code such as
// "FLT-8K2Q9Z". The random part is drawn from crypto/rand; uniqueness is
// ultimately enforced by the database's unique index on the column.
func NewBookingReference(kind model.ItemKind) string {
	buf := make([]byte, refLength)
	max := big.NewInt(int64(len(refAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform's entropy source is
			// broken; there is no reasonable fallback.
			panic(err)
		}
		buf[i] = refAlphabet[n.Int64()]
	}
	return kindPrefix(kind) + "-" + string(buf)
}
