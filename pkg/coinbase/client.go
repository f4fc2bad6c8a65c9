// Package coinbase is a typed client for the public (unauthenticated) Coinbase v2 data API:
// currencies, exchange rates, buy/sell/spot prices and server time.
package coinbase

import (
	"context"
	"time"

	"github.com/samvad-hq/coinbase-public/pkg/httpclient"
)

const (
	// MainURL is the production base URI of the v2 API.
	MainURL = "https://api.coinbase.com/v2"

	// Version is reported in the User-Agent header of every request.
	Version = "0.4.0"

	// UserAgent identifies this client to the API.
	UserAgent = "coinbase-public/" + Version
)

// Public is the client handle for public endpoints. It is immutable after
// NewPublic returns and may be shared by any number of goroutines.
type Public struct {
	uri    string
	client httpclient.Client
	log    Logger
}

// Option customizes a Public at construction time.
type Option func(*options)

type options struct {
	client  httpclient.Client
	log     Logger
	timeout time.Duration
}

// WithHTTPClient replaces the default resty transport.
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *options) { o.client = c }
}

// WithLogger attaches a logger; calls are silent otherwise.
func WithLogger(l Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTimeout sets the request timeout of the default transport.
// It has no effect when WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// NewPublic builds a client rooted at uri, e.g. MainURL.
func NewPublic(uri string, opts ...Option) *Public {
	o := options{timeout: httpclient.DefaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.client == nil {
		o.client = httpclient.NewRestyClient(o.timeout)
	}
	return &Public{
		uri:    uri,
		client: o.client,
		log:    ensureLogger(o.log),
	}
}

// URI returns the base URI requests are resolved against.
func (p *Public) URI() string { return p.uri }

// get runs one call end to end: build, send, interpret.
func get[T any](ctx context.Context, p *Public, path string) (T, error) {
	var zero T
	body, status, err := p.send(ctx, path)
	if err != nil {
		return zero, err
	}
	out, err := interpret[T](body, status)
	if err != nil {
		p.logFailure(path, err)
		return zero, err
	}
	return out, nil
}

// getPage is get for list endpoints that also surfaces pagination metadata.
func getPage[T any](ctx context.Context, p *Public, path string) (Page[T], error) {
	body, status, err := p.send(ctx, path)
	if err != nil {
		return Page[T]{}, err
	}
	out, err := interpretPage[T](body, status)
	if err != nil {
		p.logFailure(path, err)
		return Page[T]{}, err
	}
	return out, nil
}

func (p *Public) send(ctx context.Context, path string) ([]byte, int, error) {
	req, err := p.newRequest(path)
	if err != nil {
		p.logFailure(path, err)
		return nil, 0, err
	}

	p.log.DebugObj("coinbase request", "coinbase_request", map[string]any{
		"method": req.Method,
		"url":    req.URL,
	})

	resp, err := p.client.Get(ctx, req.URL, req.Headers)
	if err != nil {
		terr := &Error{Kind: KindTransport, Err: err}
		p.logFailure(path, terr)
		return nil, 0, terr
	}
	return resp.Body(), resp.StatusCode(), nil
}

func (p *Public) logFailure(path string, err error) {
	p.log.WarnObj("coinbase call failed", "coinbase_error", map[string]any{
		"path":  path,
		"error": err.Error(),
	})
}
