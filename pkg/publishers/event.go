package publishers

import (
	"time"

	"github.com/samvad-hq/coinbase-public/internal/domain"
	"github.com/shopspring/decimal"
)

// Event represents the payload published downstream.
type Event struct {
	Key       string          `json:"key"`
	WatchID   string          `json:"watch_id"`
	Pair      string          `json:"pair"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Base      string          `json:"base,omitempty"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// NewEvent constructs an Event for the given quote.
func NewEvent(q domain.Quote) Event {
	fetched := q.FetchedAt
	if fetched.IsZero() {
		fetched = time.Now()
	}
	return Event{
		Key:       q.Key(),
		WatchID:   q.WatchID,
		Pair:      q.Pair,
		Kind:      q.Kind,
		Amount:    q.Amount,
		Currency:  q.Currency,
		Base:      q.Base,
		FetchedAt: fetched.UTC(),
	}
}

func (e Event) attributes() map[string]string {
	return map[string]string{
		"pair": e.Pair,
		"kind": e.Kind,
	}
}
