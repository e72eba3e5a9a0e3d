package app

import (
	"net/url"
	"strings"
)

// originHost reduces an Origin header value to its host[:port] part.
// Values that do not parse as URLs are matched as-is.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// originAllowed matches a host against one allowed_origins pattern.
// Three forms: an exact host, "*.example.com" for any subdomain, and
// "host:*" for any port (handy for local dev servers).
func originAllowed(pattern, host string) bool {
	switch {
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, strings.TrimSuffix(pattern, "*"))
	default:
		return pattern == host
	}
}
