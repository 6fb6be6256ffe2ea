package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "LEO-Core/0.2"
	// MaxBodySize caps how much of a response is read.
	MaxBodySize = 10 * 1024 * 1024
)

var (
	ErrStatus             = errors.New("unexpected status")
	ErrUnsupportedContent = errors.New("unsupported content type")
)

// Page is a fetched document decoded to UTF-8.
type Page struct {
	URL         string // final URL after redirects
	StatusCode  int
	ContentType string
	Body        string
}

// Fetcher retrieves a single page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// Config configures a Client.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	// RequestsPerSecond limits outgoing requests; <= 0 is unlimited.
	RequestsPerSecond float64
	MaxBodySize       int64
}

// Client fetches pages with one attempt per call.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	maxBody int64
}

// NewClient creates a fetch client. Zero config fields take defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = MaxBodySize
	}

	// Pooled transport only; retrying is left to the caller.
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil

	restyClient := resty.New().
		SetTransport(retryClient.HTTPClient.Transport).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond)))
	}

	return &Client{resty: restyClient, limiter: limiter, maxBody: cfg.MaxBodySize}
}

// Fetch downloads url. Non-2xx responses return ErrStatus and bodies that
// do not sniff as text return ErrUnsupportedContent.
func (c *Client) Fetch(ctx context.Context, url string) (Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Page{}, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := c.resty.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	body := resp.RawBody()
	defer body.Close()

	page := Page{
		URL:         url,
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
	}
	if resp.RawResponse != nil && resp.RawResponse.Request != nil {
		page.URL = resp.RawResponse.Request.URL.String()
	}

	if page.StatusCode < 200 || page.StatusCode > 299 {
		return page, fmt.Errorf("%w: %d from %s", ErrStatus, page.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(body, c.maxBody))
	if err != nil {
		return page, fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) == 0 {
		return page, nil
	}
	if !isText(data) {
		return page, fmt.Errorf("%w: %s", ErrUnsupportedContent, mimetype.Detect(data).String())
	}

	page.Body, err = decode(data, page.ContentType)
	if err != nil {
		return page, fmt.Errorf("decode %s: %w", url, err)
	}
	return page, nil
}

// isText reports whether the sniffed type descends from text/plain, which
// covers HTML, XML and plain text.
func isText(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// decode converts data to UTF-8 using the declared content type, meta tags
// or a BOM, in that order.
func decode(data []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(data), contentType)
	if err != nil {
		return string(data), nil
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
