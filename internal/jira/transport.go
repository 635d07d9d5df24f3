package jira

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// newHTTPTransport returns a pooled Transport with optional TLS skipping.
func newHTTPTransport(skipInsecure bool) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: skipInsecure, // NOTE: intended for dev only
		},

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
