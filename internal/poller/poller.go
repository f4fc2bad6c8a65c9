// Package poller runs passes over a watchlist, turning fresh prices into
// published quote events.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/coinbase-public/internal/domain"
	"github.com/samvad-hq/coinbase-public/internal/logger"
	"github.com/samvad-hq/coinbase-public/internal/metrics"
	"github.com/samvad-hq/coinbase-public/pkg/coinbase"
	"github.com/samvad-hq/coinbase-public/pkg/publishers"
	"github.com/samvad-hq/coinbase-public/pkg/watchlist"
	"github.com/shopspring/decimal"
)

// Service polls prices for a watchlist. Lookups are never retried within a
// pass; a failed pair is simply tried again on the next one.
type Service struct {
	source    QuoteSource
	publisher EventPublisher
	deduper   Deduper
	metrics   *metrics.PollMetrics
	log       logger.Logger
	now       func() time.Time
}

// NewService wires a poller. Nil deduper, metrics or logger are allowed.
func NewService(src QuoteSource, pub EventPublisher, dedup Deduper, m *metrics.PollMetrics, log logger.Logger) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		source:    src,
		publisher: pub,
		deduper:   dedup,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// Run performs one pass over the enabled watches. Failures of individual
// lookups are logged and joined into the returned error. A cancelled context
// ends the pass early and is not reported as a failure.
func (s *Service) Run(ctx context.Context, watches []watchlist.Watch) error {
	if s == nil || s.source == nil {
		return errors.New("poller service is not initialized")
	}
	if len(watches) == 0 {
		return errors.New("no watches configured for polling")
	}

	start := s.now()
	defer func() { s.metrics.ObservePass(s.now().Sub(start)) }()

	var errs []error
	for _, w := range watches {
		if !w.EnabledValue() {
			continue
		}
		for _, kind := range w.PriceKinds() {
			if ctx.Err() != nil {
				return errors.Join(errs...)
			}
			if err := s.poll(ctx, w, kind); err != nil {
				if ctx.Err() != nil {
					return errors.Join(errs...)
				}
				s.log.ErrorObj("quote poll failed", "poll_error", map[string]any{
					"watch_id": w.ID,
					"pair":     w.Pair,
					"kind":     string(kind),
					"error":    err.Error(),
				})
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Service) poll(ctx context.Context, w watchlist.Watch, kind coinbase.PriceKind) error {
	price, err := s.source.Price(ctx, kind, w.Pair)
	if err != nil {
		s.metrics.IncLookup(string(kind), metrics.OutcomeError)
		return fmt.Errorf("%s price for %s: %w", kind, w.Pair, err)
	}

	q := domain.Quote{
		WatchID:   w.ID,
		Pair:      w.Pair,
		Kind:      string(kind),
		Amount:    price.Amount,
		Currency:  price.Currency,
		Base:      price.Base,
		FetchedAt: s.now(),
	}
	key := q.SeriesKey()

	if s.unchanged(w, key, q.Amount) {
		s.metrics.IncLookup(string(kind), metrics.OutcomeDuplicate)
		return nil
	}
	s.metrics.IncLookup(string(kind), metrics.OutcomeFresh)

	if s.publisher == nil {
		return nil
	}
	delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(q))
	if delivered == 0 && err != nil {
		return fmt.Errorf("publish %s %s quote: %w", w.Pair, kind, err)
	}

	// Partially delivered quotes are still recorded; the failed sinks were
	// already reported by the fanout.
	if delivered > 0 {
		s.metrics.IncPublished()
		s.record(w, key, q.Amount)
	}
	s.log.DebugObj("quote published", "quote", map[string]any{
		"watch_id":  w.ID,
		"pair":      w.Pair,
		"kind":      string(kind),
		"amount":    q.Amount.String(),
		"currency":  q.Currency,
		"delivered": delivered,
	})
	if err != nil {
		return fmt.Errorf("publish %s %s quote: %w", w.Pair, kind, err)
	}
	return nil
}

// unchanged reports whether amount equals the last one published for the
// series. Lookup failures and unreadable amounts count as changed so a broken
// store never hides quotes.
func (s *Service) unchanged(w watchlist.Watch, key string, amount decimal.Decimal) bool {
	if s.deduper == nil {
		return false
	}
	last, ok, err := s.deduper.LastAmount(key)
	if err != nil {
		s.log.WarnObj("dedupe lookup failed; treating quote as fresh", "dedupe_error", map[string]any{
			"watch_id": w.ID,
			"key":      key,
			"error":    err.Error(),
		})
		return false
	}
	if !ok {
		return false
	}
	prev, err := decimal.NewFromString(last)
	if err != nil {
		return false
	}
	return prev.Equal(amount)
}

func (s *Service) record(w watchlist.Watch, key string, amount decimal.Decimal) {
	if s.deduper == nil {
		return
	}
	if err := s.deduper.RecordAmount(key, amount.String()); err != nil {
		s.log.WarnObj("dedupe record failed", "dedupe_error", map[string]any{
			"watch_id": w.ID,
			"key":      key,
			"error":    err.Error(),
		})
	}
}
