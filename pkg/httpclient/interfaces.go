package httpclient

import "context"

// Response is the raw result of a request: status plus the fully read body.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts the HTTP transport so the API client and publishers can inject fakes.
// Any error returned by Get means no response was received.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
