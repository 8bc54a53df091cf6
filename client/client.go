package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/vetcare/vetportal/config"
	"github.com/vetcare/vetportal/session"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	contentTypeHeader = "Content-Type"
	acceptHeader      = "Accept"
	requestIdHeader   = "X-Request-ID"
	mimeJSON          = "application/json"
	bearerTokenType   = "Bearer"
)

// Client is a http client for the practice api. It attaches the access token
// from the session store to every request, retries a request once on transient
// network failures and once after refreshing the access token on 401.
type Client struct {
	baseURL    *url.URL
	refreshURL string
	http       *http.Client
	store      session.Store
	logger     *zap.SugaredLogger
}

type Option func(*Client)

// WithHTTPClient replaces the default http client (timeout and cookie jar from config)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

func New(cfg *config.Config, store session.Store, logger *zap.SugaredLogger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return NewClient(cfg.BaseURL(), cfg.RefreshURL(), store, logger, WithHTTPClient(&http.Client{
		Timeout: cfg.RequestTimeout,
		Jar:     jar,
	}))
}

func NewClient(baseURL, refreshURL string, store session.Store, logger *zap.SugaredLogger, opts ...Option) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}

	c := &Client{
		baseURL:    u,
		refreshURL: refreshURL,
		http:       http.DefaultClient,
		store:      store,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Request sends a request to path (relative to the api base url). Non-nil bodies are encoded as json.
func (c *Client) Request(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	req, err := c.newRequest(method, path, body, opts...)
	if err != nil {
		return nil, err
	}

	return c.do(ctx, req)
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, body, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, path, body, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, opts...)
}

// request is a logical request. It keeps track of the retries performed for it,
// so every attempt is sent with the exact same method, url, headers and body.
type request struct {
	method string
	url    string
	header http.Header
	body   []byte

	anonymous bool

	networkRetried bool
	authRetried    bool
}

func (c *Client) newRequest(method, path string, body any, opts ...RequestOption) (*request, error) {
	cfg := &requestConfig{header: make(http.Header)}
	for _, opt := range opts {
		opt(cfg)
	}

	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}
	u := c.baseURL.ResolveReference(ref)
	if len(cfg.query) > 0 {
		query := u.Query()
		for key, values := range cfg.query {
			for _, value := range values {
				query.Add(key, value)
			}
		}
		u.RawQuery = query.Encode()
	}

	req := &request{
		method:      method,
		url:         u.String(),
		header:      cfg.header,
		anonymous:   cfg.skipAuth,
		authRetried: cfg.skipRefresh || cfg.skipAuth,
	}
	req.header.Set(acceptHeader, mimeJSON)

	if body != nil {
		switch b := body.(type) {
		case []byte:
			req.body = b
		case json.RawMessage:
			req.body = b
		default:
			if req.body, err = json.Marshal(body); err != nil {
				return nil, fmt.Errorf("unable to encode request body: %w", err)
			}
		}
		req.header.Set(contentTypeHeader, mimeJSON)
	}

	return req, nil
}

func (c *Client) do(ctx context.Context, req *request) (*Response, error) {
	for {
		res, err := c.sendWithNetworkRetry(ctx, req)
		if err == nil {
			return res, nil
		}
		if !IsUnauthorized(err) || req.authRetried {
			return nil, err
		}

		req.authRetried = true
		if err := c.refreshAccessToken(ctx); err != nil {
			return nil, err
		}
		c.logger.Debugw("retrying request with refreshed access token", "method", req.method, "url", req.url)
	}
}

// send performs a single attempt of req. The access token is read from the store on every
// attempt, so tokens refreshed by concurrent requests are picked up.
func (c *Client) send(ctx context.Context, req *request) (*Response, error) {
	var body io.Reader = http.NoBody
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.url, body)
	if err != nil {
		return nil, err
	}
	for key, values := range req.header {
		httpReq.Header[key] = append([]string(nil), values...)
	}

	if !req.anonymous {
		accessToken, err := c.store.Get(session.KeyAccessToken)
		if err != nil {
			return nil, fmt.Errorf("unable to read access token: %w", err)
		}
		if accessToken != "" {
			token := &oauth2.Token{AccessToken: accessToken, TokenType: bearerTokenType}
			token.SetAuthHeader(httpReq)
		}
	}

	requestId := uuid.NewString()
	httpReq.Header.Set(requestIdHeader, requestId)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debugw("request failed", "method", req.method, "url", req.url, "requestId", requestId, zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	c.logger.Debugw("request completed", "method", req.method, "url", req.url, "requestId", requestId, "status", resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{
			Method:     req.method,
			URL:        req.url,
			StatusCode: resp.StatusCode,
			Body:       payload,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       payload,
	}, nil
}
