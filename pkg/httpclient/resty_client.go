package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a single request when the caller does not configure one.
const DefaultTimeout = 15 * time.Second

// RestyClient is the default Client. Requests are never retried.
type RestyClient struct {
	rc *resty.Client
}

// NewRestyClient returns a Client whose requests time out after timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{rc: NewRestyHTTPClient(timeout)}
}

// NewRestyHTTPClient returns the underlying resty client for callers that
// need other verbs or request bodies. A non-positive timeout means DefaultTimeout.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
}

// Get sends a GET with exactly the given headers and reads the whole body.
func (c *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, err
	}
	return restyResponse{resp}, nil
}

// restyResponse satisfies Response through the embedded Body and StatusCode.
type restyResponse struct {
	*resty.Response
}
