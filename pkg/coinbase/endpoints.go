package coinbase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// endpoint binds a path template to the payload type its data member decodes into.
type endpoint[T any] struct {
	path string
}

func (e endpoint[T]) call(ctx context.Context, p *Public, args ...any) (T, error) {
	return get[T](ctx, p, e.resolve(args...))
}

func (e endpoint[T]) page(ctx context.Context, p *Public, args ...any) (Page[T], error) {
	return getPage[T](ctx, p, e.resolve(args...))
}

func (e endpoint[T]) resolve(args ...any) string {
	if len(args) == 0 {
		return e.path
	}
	return fmt.Sprintf(e.path, args...)
}

var (
	currenciesEndpoint        = endpoint[[]Currency]{path: "/currencies"}
	exchangeRatesEndpoint     = endpoint[ExchangeRates]{path: "/exchange-rates"}
	exchangeRatesBaseEndpoint = endpoint[ExchangeRates]{path: "/exchange-rates?currency=%s"}
	buyPriceEndpoint          = endpoint[CurrencyPrice]{path: "/currency_pair/%s/buy"}
	sellPriceEndpoint         = endpoint[CurrencyPrice]{path: "/currency_pair/%s/sell"}
	spotPriceEndpoint         = endpoint[CurrencyPrice]{path: "/currency_pair/%s/spot"}
	spotPriceDateEndpoint     = endpoint[CurrencyPrice]{path: "/currency_pair/%s/spot?date=%s"}
	currentTimeEndpoint       = endpoint[currentTime]{path: "/current_time"}
)

// Currencies lists known currencies. Codes conform to ISO 4217 where possible;
// currencies with no ISO 4217 representation use a custom code (e.g. BTC).
//
// https://developers.coinbase.com/api/v2#currencies
func (p *Public) Currencies(ctx context.Context) ([]Currency, error) {
	return currenciesEndpoint.call(ctx, p)
}

// CurrenciesPage is Currencies with the pagination metadata of the response.
func (p *Public) CurrenciesPage(ctx context.Context) (Page[[]Currency], error) {
	return currenciesEndpoint.page(ctx, p)
}

// ExchangeRates returns current rates for the default base currency (USD).
// Rates are the price of one unit of the base currency.
//
// https://developers.coinbase.com/api/v2#exchange-rates
func (p *Public) ExchangeRates(ctx context.Context) (ExchangeRates, error) {
	return exchangeRatesEndpoint.call(ctx, p)
}

// ExchangeRatesWithBase returns current rates for base instead of USD.
func (p *Public) ExchangeRatesWithBase(ctx context.Context, base string) (ExchangeRates, error) {
	return exchangeRatesBaseEndpoint.call(ctx, p, url.QueryEscape(base))
}

// BuyPrice returns the total price to buy one unit of the pair's base currency.
//
// https://developers.coinbase.com/api/v2#get-buy-price
func (p *Public) BuyPrice(ctx context.Context, pair string) (CurrencyPrice, error) {
	return buyPriceEndpoint.call(ctx, p, url.PathEscape(pair))
}

// SellPrice returns the total price to sell one unit of the pair's base currency.
//
// https://developers.coinbase.com/api/v2#get-sell-price
func (p *Public) SellPrice(ctx context.Context, pair string) (CurrencyPrice, error) {
	return sellPriceEndpoint.call(ctx, p, url.PathEscape(pair))
}

// SpotPrice returns the current market price for a pair, usually somewhere
// between the buy and sell price.
//
// https://developers.coinbase.com/api/v2#get-spot-price
func (p *Public) SpotPrice(ctx context.Context, pair string) (CurrencyPrice, error) {
	return spotPriceEndpoint.call(ctx, p, url.PathEscape(pair))
}

// SpotPriceOn returns the spot price for the UTC calendar day of date.
func (p *Public) SpotPriceOn(ctx context.Context, pair string, date time.Time) (CurrencyPrice, error) {
	return spotPriceDateEndpoint.call(ctx, p, url.PathEscape(pair), date.UTC().Format(time.DateOnly))
}

// CurrentTime returns the API server time.
//
// https://developers.coinbase.com/api/v2#time
func (p *Public) CurrentTime(ctx context.Context) (time.Time, error) {
	ct, err := currentTimeEndpoint.call(ctx, p)
	if err != nil {
		return time.Time{}, err
	}
	return ct.ISO, nil
}

// PriceKind selects one of the three price endpoints.
type PriceKind string

const (
	PriceBuy  PriceKind = "buy"
	PriceSell PriceKind = "sell"
	PriceSpot PriceKind = "spot"
)

// ParsePriceKind accepts buy, sell or spot in any case.
func ParsePriceKind(s string) (PriceKind, error) {
	switch k := PriceKind(strings.ToLower(strings.TrimSpace(s))); k {
	case PriceBuy, PriceSell, PriceSpot:
		return k, nil
	default:
		return "", fmt.Errorf("unknown price kind %q", s)
	}
}

// Price dispatches to BuyPrice, SellPrice or SpotPrice.
func (p *Public) Price(ctx context.Context, kind PriceKind, pair string) (CurrencyPrice, error) {
	switch kind {
	case PriceBuy:
		return p.BuyPrice(ctx, pair)
	case PriceSell:
		return p.SellPrice(ctx, pair)
	case PriceSpot:
		return p.SpotPrice(ctx, pair)
	default:
		return CurrencyPrice{}, invalidRequest(fmt.Errorf("unknown price kind %q", kind))
	}
}
