package coinbase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a currency known to the API. Codes follow ISO 4217 where possible.
type Currency struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	MinSize decimal.Decimal `json:"min_size"`
}

// ExchangeRates holds the price of one unit of Currency in every other currency.
type ExchangeRates struct {
	Currency string                     `json:"currency"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// CurrencyPrice is a buy, sell or spot quote.
type CurrencyPrice struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Base     string          `json:"base,omitempty"`
}

// Wire shapes. String members are pointers so that a present empty string
// passes the required check and only an absent member fails it.
type (
	currencyWire struct {
		ID      *string         `json:"id" validate:"required"`
		Name    *string         `json:"name" validate:"required"`
		MinSize decimal.Decimal `json:"min_size" validate:"required"`
	}
	exchangeRatesWire struct {
		Currency *string                    `json:"currency" validate:"required"`
		Rates    map[string]decimal.Decimal `json:"rates" validate:"required"`
	}
	currencyPriceWire struct {
		Amount   decimal.Decimal `json:"amount" validate:"required"`
		Currency *string         `json:"currency" validate:"required"`
		Base     *string         `json:"base"`
	}
)

func (c *Currency) UnmarshalJSON(data []byte) error {
	var w currencyWire
	if err := decodeWire(data, &w); err != nil {
		return err
	}
	*c = Currency{ID: *w.ID, Name: *w.Name, MinSize: w.MinSize}
	return nil
}

func (r *ExchangeRates) UnmarshalJSON(data []byte) error {
	var w exchangeRatesWire
	if err := decodeWire(data, &w); err != nil {
		return err
	}
	*r = ExchangeRates{Currency: *w.Currency, Rates: w.Rates}
	return nil
}

func (p *CurrencyPrice) UnmarshalJSON(data []byte) error {
	var w currencyPriceWire
	if err := decodeWire(data, &w); err != nil {
		return err
	}
	*p = CurrencyPrice{Amount: w.Amount, Currency: *w.Currency}
	if w.Base != nil {
		p.Base = *w.Base
	}
	return nil
}

func decodeWire(data []byte, w any) error {
	if err := json.Unmarshal(data, w); err != nil {
		return err
	}
	return payloadValidator().Struct(w)
}

type currentTime struct {
	ISO   time.Time `json:"iso" validate:"required"`
	Epoch int64     `json:"epoch"`
}

// Order is the sort order of a paginated listing.
type Order int

const (
	Ascending Order = iota + 1
	Descending
)

func (o Order) String() string {
	switch o {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return ""
	}
}

func (o Order) MarshalJSON() ([]byte, error) {
	s := o.String()
	if s == "" {
		return nil, fmt.Errorf("invalid order %d", int(o))
	}
	return json.Marshal(s)
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("order: %w", err)
	}
	switch s {
	case "asc":
		*o = Ascending
	case "desc":
		*o = Descending
	default:
		return fmt.Errorf("order: unknown value %q", s)
	}
	return nil
}

// Pagination is the cursor state of a list response. It is informational;
// the client never follows it.
type Pagination struct {
	EndingBefore         *time.Time `json:"ending_before"`
	StartingAfter        *time.Time `json:"starting_after"`
	PreviousEndingBefore *time.Time `json:"previous_ending_before"`
	NextStartingAfter    *time.Time `json:"next_starting_after"`
	Limit                int        `json:"limit"`
	Order                Order      `json:"order"`
	PreviousURI          string     `json:"previous_uri"`
	NextURI              string     `json:"next_uri"`
}

// Page pairs a list payload with its pagination metadata, when the API sent any.
type Page[T any] struct {
	Data       T
	Pagination *Pagination
}
