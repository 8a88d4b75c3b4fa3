package userjam

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/loft-sh/log"
	userjamhttp "github.com/userjam/userjam-go/pkg/http"
	"github.com/userjam/userjam-go/pkg/version"
)

const (
	// DefaultEndpoint receives every track and identify payload.
	DefaultEndpoint = "https://api.userjam.com/api/report"

	// DefaultTimeout bounds a single report request, including reading the response.
	DefaultTimeout = 20 * time.Second
)

// Client reports events for one tracking key. It is safe for concurrent use.
type Client struct {
	key atomic.Pointer[string]

	sender *sender
	now    func() time.Time
}

type options struct {
	key        string
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	now        func() time.Time
	log        log.Logger
}

type Option func(*options)

// WithKey authenticates the client on construction, same as calling Auth.
func WithKey(key string) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithEndpoint overrides the report URL.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithHTTPClient replaces the shared transport client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

// WithTimeout sets the per request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// WithClock sets the source of payload timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.log = logger
	}
}

// New creates a client. Without WithKey the client has to be authenticated
// with Auth before anything can be reported.
func New(opts ...Option) *Client {
	o := &options{
		endpoint:  DefaultEndpoint,
		timeout:   DefaultTimeout,
		userAgent: version.UserAgent(),
		now:       time.Now,
		log:       log.Discard,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient == nil {
		o.httpClient = userjamhttp.GetHTTPClient()
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}

	c := &Client{
		sender: &sender{
			endpoint:   o.endpoint,
			httpClient: o.httpClient,
			timeout:    o.timeout,
			userAgent:  o.userAgent,
			log:        o.log,
		},
		now: o.now,
	}
	c.Auth(o.key)

	return c
}

// Auth sets the tracking key. The key is not validated and the last call wins.
// Requests already in flight keep the key they were issued with.
func (c *Client) Auth(key string) {
	c.key.Store(&key)
}

// Key returns the current tracking key.
func (c *Client) Key() string {
	key := c.key.Load()
	if key == nil {
		return ""
	}
	return *key
}

// Track reports that event happened for userID. Properties may be nil, in
// which case they are left out of the payload.
//
// ErrNotConfigured is returned without a future if the client has no key.
// Every other failure is delivered through the future.
func (c *Client) Track(userID, event string, properties Properties) (*Future, error) {
	key, err := c.validateConfig()
	if err != nil {
		return nil, err
	}

	return c.sender.send(key, newTrackPayload(c.now(), userID, event, properties)), nil
}

// TrackEvent is Track without properties.
func (c *Client) TrackEvent(userID, event string) (*Future, error) {
	return c.Track(userID, event, nil)
}

// Identify reports traits for userID. Traits may be nil, in which case they
// are left out of the payload.
func (c *Client) Identify(userID string, traits Traits) (*Future, error) {
	key, err := c.validateConfig()
	if err != nil {
		return nil, err
	}

	return c.sender.send(key, newIdentifyPayload(c.now(), userID, traits)), nil
}

func (c *Client) validateConfig() (string, error) {
	key := c.Key()
	if key == "" {
		return "", ErrNotConfigured
	}
	return key, nil
}
