package http

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/NamanBalaji/debridget/internal/logger"
)

const (
	defaultConnectTimeout = 30 * time.Second
	defaultIdleTimeout    = 90 * time.Second
	keepAlivePeriod       = 30 * time.Second
	maxIdleConns          = 100
	tlsHandshakeTimeout   = 10 * time.Second
	expectContinueTimeout = 1 * time.Second

	DefaultUserAgent = "debridget/1.0"

	defaultDownloadName = "download"
)

// Client is an HTTP client for long-running transfers.
// It never applies an overall request deadline; only the caller's context ends a transfer.
type Client struct {
	*http.Client

	userAgent string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithUserAgent overrides the User-Agent sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTransport replaces the default transport.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		if rt != nil {
			c.Transport = rt
		}
	}
}

// NewClient creates a new HTTP client with custom transport settings.
func NewClient(opts ...ClientOption) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultConnectTimeout,
			KeepAlive: keepAlivePeriod,
		}).DialContext,
		MaxIdleConns:          maxIdleConns,
		IdleConnTimeout:       defaultIdleTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ExpectContinueTimeout: expectContinueTimeout,
		DisableCompression:    true,
	}

	c := &Client{
		Client:    &http.Client{Transport: transport},
		userAgent: DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Stream issues a GET request for urlStr and returns the response with its body unread.
// A non-2xx response is closed and reported as a *StatusError.
func (c *Client) Stream(ctx context.Context, urlStr string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		logger.Errorf("Failed to create GET request for %s: %v", urlStr, err)
		return nil, ErrRequestCreation
	}

	req.Header.Set("User-Agent", c.userAgent)

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	logger.Debugf("Sending GET request to %s", urlStr)

	resp, err := c.Do(req)
	if err != nil {
		logger.Errorf("GET request failed for %s: %v", urlStr, err)
		return nil, wrapTransportError(err)
	}

	logger.Debugf("GET response for %s: status=%d, content-length=%d", urlStr, resp.StatusCode, resp.ContentLength)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if err := resp.Body.Close(); err != nil {
			logger.Warnf("Failed to close response body for %s: %v", urlStr, err)
		}

		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return resp, nil
}

// IsHTTPURL reports whether urlStr is an absolute http or https URL.
func IsHTTPURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FilenameFromURL derives a file name from a URL: the filename query parameter,
// then the last path segment, then a fixed default.
func FilenameFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return defaultDownloadName
	}

	if qname := u.Query().Get("filename"); qname != "" {
		return path.Base(qname)
	}

	base := path.Base(u.Path)
	if base != "" && base != "/" && base != "." && !strings.HasPrefix(base, "..") {
		return base
	}

	return defaultDownloadName
}
