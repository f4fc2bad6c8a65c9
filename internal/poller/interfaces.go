package poller

import (
	"context"

	"github.com/samvad-hq/coinbase-public/pkg/coinbase"
	"github.com/samvad-hq/coinbase-public/pkg/publishers"
)

// QuoteSource looks up a single price. *coinbase.Public satisfies it.
type QuoteSource interface {
	Price(ctx context.Context, kind coinbase.PriceKind, pair string) (coinbase.CurrencyPrice, error)
}

// EventPublisher publishes quote events downstream and reports how many
// sinks accepted each one.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers the last published amount of each price series.
type Deduper interface {
	LastAmount(key string) (string, bool, error)
	RecordAmount(key, amount string) error
}
