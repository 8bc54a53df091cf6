package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	errs "github.com/vetcare/vetportal/errors"
)

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("response body is empty")
	}
	return json.Unmarshal(r.Body, v)
}

// StatusError is returned for responses with a non-2xx status code.
// It unwraps to the matching sentinel from the errors package.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d", e.Method, e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return errs.FromStatusCode(e.StatusCode)
}

// IsUnauthorized returns true if err was caused by a response with 401 status code
func IsUnauthorized(err error) bool {
	return HasStatusCode(err, http.StatusUnauthorized)
}

func HasStatusCode(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

type requestConfig struct {
	query       url.Values
	header      http.Header
	skipRefresh bool
	skipAuth    bool
}

type RequestOption func(*requestConfig)

func WithQuery(query url.Values) RequestOption {
	return func(cfg *requestConfig) {
		cfg.query = query
	}
}

func WithHeader(key, value string) RequestOption {
	return func(cfg *requestConfig) {
		cfg.header.Set(key, value)
	}
}

// WithoutRefresh disables the refresh-and-retry on 401, e.g. for requests
// where a 401 means invalid credentials rather than an expired access token
func WithoutRefresh() RequestOption {
	return func(cfg *requestConfig) {
		cfg.skipRefresh = true
	}
}

// WithoutAuth sends the request without the access token. Stale tokens
// would otherwise be rejected by endpoints that don't need one.
func WithoutAuth() RequestOption {
	return func(cfg *requestConfig) {
		cfg.skipAuth = true
	}
}
