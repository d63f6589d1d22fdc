package web

import (
	"net"
	"net/http"
)

// clientIP returns the request's client address without the port.
// TrustedRealIP has already replaced RemoteAddr for trusted proxies.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
