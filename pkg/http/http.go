package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/http2"
)

const (
	// ConnectTimeout bounds dialing a new connection to the report endpoint.
	ConnectTimeout = 10 * time.Second

	idleConnTimeout = 90 * time.Second
)

var httpClient *http.Client
var httpClientOnce sync.Once

// GetHTTPClient returns the process wide client shared by every tracking client
// that was not given its own.
func GetHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		httpClient = NewHTTPClient()
	})

	return httpClient
}

// NewHTTPClient creates a client that prefers HTTP/2 and fails fast on dial.
// Request timeouts are applied per request by the caller.
func NewHTTPClient() *http.Client {
	customTransport := http.DefaultTransport.(*http.Transport).Clone()
	customTransport.DialContext = (&net.Dialer{
		Timeout:   ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	customTransport.TLSHandshakeTimeout = ConnectTimeout
	customTransport.IdleConnTimeout = idleConnTimeout

	// ConfigureTransport only fails if the transport was already configured
	_ = http2.ConfigureTransport(customTransport)

	return &http.Client{Transport: customTransport}
}
