// Package fetcher provides the optional readability-based excerpt
// enricher. When enabled it backfills descriptions for feed items whose
// source omits one by extracting the article page's text.
package fetcher

import (
	"fmt"
	"net"
	"net/url"
)

// validateURL rejects URLs before any HTTP request is made. Only
// http/https schemes are allowed, and with denyPrivateIPs set the
// hostname must not resolve to loopback, private, or link-local
// address space (SSRF guard: feed items carry arbitrary URLs).
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", ErrInvalidURL, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", ErrInvalidURL, hostname, err)
	}

	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: hostname '%s' resolves to %s", ErrPrivateIP, hostname, ip.String())
		}
	}

	return nil
}

// isPrivateIP covers loopback, RFC 1918/4193 private ranges, and
// link-local for both IPv4 and IPv6.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}
