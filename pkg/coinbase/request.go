package coinbase

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"
)

// Request describes a transport-ready call. The body is always empty.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
}

// newRequest resolves path against the base URI. path may carry a literal
// query string but must not be an absolute URI of its own.
func (p *Public) newRequest(path string) (Request, error) {
	if strings.Contains(path, "://") {
		return Request{}, invalidRequest(fmt.Errorf("path %q is an absolute uri", path))
	}

	target := p.uri + path
	if i := strings.IndexFunc(target, invalidURIRune); i >= 0 {
		return Request{}, invalidRequest(fmt.Errorf("uri %q has invalid character at offset %d", target, i))
	}

	u, err := url.Parse(target)
	if err != nil {
		return Request{}, invalidRequest(err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Request{}, invalidRequest(fmt.Errorf("uri %q is not absolute", target))
	}

	return Request{
		Method:  http.MethodGet,
		URL:     target,
		Headers: map[string]string{"User-Agent": UserAgent},
	}, nil
}

func invalidURIRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}

func invalidRequest(err error) *Error {
	return &Error{Kind: KindInvalidRequest, Err: err}
}
