package storage

import (
	"net"
	"net/http"
	"time"
)

// Timeout returns the configured connection timeout, defaulting to 30 seconds.
func (c Config) Timeout() time.Duration {
	timeout := c.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return time.Duration(timeout) * time.Second
}

// NewTransport creates the HTTP transport shared by the drivers.
// The timeouts only bound connection setup and the wait for response headers,
// so long transfers are not cut off.
func NewTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout, // Connection setup timeout
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout, // Wait for first response byte timeout
	}
}
