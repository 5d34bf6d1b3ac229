// Package fetch retrieves the raw record set from the remote JSON endpoint.
// It owns nothing beyond the in-flight request: no retries, no caching.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/h0rv/fetchlist/internal/domain"
)

const (
	// DefaultBaseURL is the host serving the record set.
	DefaultBaseURL = "https://fetch-hiring.s3.amazonaws.com"
	// DefaultPath is the resource path of the record set.
	DefaultPath = "/hiring.json"

	defaultUserAgent = "fetchlist/0.1"
)

// Fetcher returns the full raw record set.
// Implemented by *Client; the store depends on this interface.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.RawRecord, error)
}

var _ Fetcher = (*Client)(nil)

// NetworkError reports a failed fetch: transport failure, non-2xx status,
// or a body that is not a JSON record array.
type NetworkError struct {
	Op         string // "request", "status", or "decode"
	URL        string
	StatusCode int // set when Op is "status"
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Op == "status" {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err is or wraps a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// Client fetches records over HTTP.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. The default is an http.Client with
// no timeout of its own; callers bound requests through the context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// New builds a Client for baseURL + path. Empty values fall back to the defaults.
func New(baseURL, path string, opts ...Option) (*Client, error) {
	endpoint, err := resolveEndpoint(baseURL, path)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint:  endpoint,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the full endpoint URL.
func (c *Client) URL() string {
	return c.endpoint.String()
}

// Fetch performs one GET of the endpoint and decodes the record array.
// An empty array is a valid result and yields an empty, non-nil slice.
func (c *Client) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	if c == nil {
		return nil, &NetworkError{Op: "request", Err: errors.New("client is nil")}
	}
	target := c.endpoint.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &NetworkError{Op: "request", URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "request", URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Op: "status", URL: target, StatusCode: resp.StatusCode}
	}

	records := []domain.RawRecord{}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&records); err != nil {
		return nil, &NetworkError{Op: "decode", URL: target, Err: err}
	}
	// The body must hold exactly one JSON value.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, &NetworkError{Op: "decode", URL: target, Err: err}
	}
	if records == nil {
		// A literal "null" body decodes to nil.
		records = []domain.RawRecord{}
	}
	return records, nil
}

func resolveEndpoint(baseURL, path string) (*url.URL, error) {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", baseURL)
	}

	p := strings.TrimSpace(path)
	if p == "" {
		p = DefaultPath
	}
	rel, err := url.Parse(strings.TrimPrefix(p, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}

	u.RawQuery = ""
	u.Fragment = ""
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.ResolveReference(rel), nil
}
