// Command cbprice prints public Coinbase data as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/samvad-hq/coinbase-public/internal/logger"
	"github.com/samvad-hq/coinbase-public/pkg/coinbase"
	"github.com/samvad-hq/coinbase-public/pkg/httpclient"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type options struct {
	kind    string
	pair    string
	base    string
	date    string
	apiURL  string
	timeout time.Duration
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "cbprice: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("cbprice", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.kind, "kind", "k", "spot", "buy, sell, spot, rates, currencies or time")
	fs.StringVarP(&opts.pair, "pair", "p", "BTC-USD", "currency pair for price lookups")
	fs.StringVar(&opts.base, "base", "", "base currency for --kind rates")
	fs.StringVar(&opts.date, "date", "", "historic spot price date (YYYY-MM-DD)")
	fs.StringVar(&opts.apiURL, "api-url", coinbase.MainURL, "API base URL")
	fs.DurationVar(&opts.timeout, "timeout", httpclient.DefaultTimeout, "request timeout")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests and failures to stderr")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	opts.kind = strings.ToLower(strings.TrimSpace(opts.kind))
	if opts.date != "" && opts.kind != string(coinbase.PriceSpot) {
		return options{}, errors.New("--date only applies to --kind spot")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	clientOpts := []coinbase.Option{coinbase.WithHTTPClient(httpclient.NewRestyClient(opts.timeout))}
	if opts.verbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = zl.Sync() }()
		clientOpts = append(clientOpts, coinbase.WithLogger(logger.New(zl)))
	}

	client := coinbase.NewPublic(opts.apiURL, clientOpts...)
	result, err := fetch(ctx, client, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func fetch(ctx context.Context, client *coinbase.Public, opts options) (any, error) {
	switch opts.kind {
	case "currencies":
		return client.Currencies(ctx)
	case "rates":
		if opts.base != "" {
			return client.ExchangeRatesWithBase(ctx, opts.base)
		}
		return client.ExchangeRates(ctx)
	case "time":
		return client.CurrentTime(ctx)
	}

	kind, err := coinbase.ParsePriceKind(opts.kind)
	if err != nil {
		return nil, err
	}
	if opts.date != "" {
		day, err := time.Parse(time.DateOnly, opts.date)
		if err != nil {
			return nil, fmt.Errorf("parse --date: %w", err)
		}
		return client.SpotPriceOn(ctx, opts.pair, day)
	}
	return client.Price(ctx, kind, opts.pair)
}
