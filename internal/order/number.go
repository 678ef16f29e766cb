package order

import (
	"fmt"
	"math/rand"
	"time"
)

const numberSuffixAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewNumber generates a human-readable order number from a truncated
// timestamp plus a random suffix. Numbers are practically unlikely to
// collide but carry no global uniqueness guarantee; the storage id remains
// the real identity.
func NewNumber() string {
	ts := time.Now().UnixMilli() % 1_000_000
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = numberSuffixAlphabet[rand.Intn(len(numberSuffixAlphabet))]
	}
	return fmt.Sprintf("GRB-%06d-%s", ts, suffix)
}
