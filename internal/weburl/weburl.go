package weburl

import (
	"net/url"
	"strings"
)

// Valid reports whether s is an absolute http or https URL with a host.
func Valid(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u == nil {
		return false
	}
	if !isHTTPScheme(u) {
		return false
	}
	return u.Host != ""
}

// Domain returns the hostname of s without a leading "www.". When s cannot be
// parsed or has no host, s is returned unchanged.
func Domain(s string) string {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u == nil || u.Hostname() == "" {
		return s
	}
	host := u.Hostname()
	if len(host) >= 4 && strings.EqualFold(host[:4], "www.") {
		host = host[4:]
	}
	return host
}

func isHTTPScheme(u *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
