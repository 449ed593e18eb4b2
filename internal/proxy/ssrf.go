package proxy

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrInvalidURL     = errors.New("proxy: invalid url")
	ErrBlockedAddress = errors.New("proxy: internal addresses are not allowed")
)

// Hostname blacklist for internal/reserved addresses. This is a blacklist,
// not sandboxed egress: DNS rebinding is out of scope, literal IPs (including
// IPv6) get a second structured check below.
var internalHostPattern = regexp.MustCompile(`^(localhost|127\.|10\.|192\.168\.|172\.(1[6-9]|2[0-9]|3[0-1])\.|169\.254\.)`)

// ValidateTarget parses a proxy target and rejects anything pointed at
// loopback, RFC1918, link-local or otherwise non-public addresses. Runs
// before any network fetch.
func ValidateTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	if internalHostPattern.MatchString(host) || strings.HasSuffix(host, ".localhost") {
		return nil, ErrBlockedAddress
	}
	if ip, err := netip.ParseAddr(strings.Trim(host, "[]")); err == nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
			ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return nil, ErrBlockedAddress
		}
	}
	return u, nil
}
