package domain

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic key derivation
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one observed price for a currency pair.
type Quote struct {
	WatchID   string
	Pair      string
	Kind      string
	Amount    decimal.Decimal
	Currency  string
	Base      string
	FetchedAt time.Time
}

// Key identifies the observation independent of when it was made. Trailing
// zeros in the amount do not change it.
func (q Quote) Key() string {
	return hashKey(q.WatchID, q.Pair, q.Kind, q.Amount.String(), q.Currency)
}

// SeriesKey identifies the price series a quote belongs to: one watch, one
// pair, one price kind. Consecutive quotes of a series are compared by amount.
func (q Quote) SeriesKey() string {
	return hashKey(q.WatchID, q.Pair, q.Kind)
}

func hashKey(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
