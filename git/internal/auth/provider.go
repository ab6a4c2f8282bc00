// Package auth resolves go-git authentication methods from credentials the
// environment already holds. It never stores or prompts for credentials.
package auth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Provider returns the auth method for a remote URL.
// A nil method with a nil error means the provider declines the URL.
type Provider interface {
	Method(remoteURL string) (transport.AuthMethod, error)
}

// parseRemoteURL parses standard URLs as well as scp-like
// "user@host:path" remotes, which are reported with the ssh scheme.
func parseRemoteURL(remoteURL string) (*url.URL, error) {
	if !strings.Contains(remoteURL, "://") {
		if at := strings.Index(remoteURL, "@"); at >= 0 {
			rest := remoteURL[at+1:]
			if colon := strings.Index(rest, ":"); colon > 0 {
				return &url.URL{
					Scheme: "ssh",
					User:   url.User(remoteURL[:at]),
					Host:   rest[:colon],
					Path:   "/" + strings.TrimPrefix(rest[colon+1:], "/"),
				}, nil
			}
		}
	}

	u, err := url.Parse(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL %q: %w", remoteURL, err)
	}
	return u, nil
}

// matchesPattern checks if a host matches a pattern with a single leading
// "*." or trailing ".*" wildcard.
func matchesPattern(host, pattern string) bool {
	if host == pattern {
		return true
	}

	if strings.Count(pattern, "*") != 1 {
		return false
	}

	if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
		return host == suffix || strings.HasSuffix(host, "."+suffix)
	}

	if prefix, ok := strings.CutSuffix(pattern, ".*"); ok {
		return strings.HasPrefix(host, prefix+".")
	}

	return false
}

func hostAllowed(host string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	for _, pattern := range allowed {
		if matchesPattern(host, pattern) {
			return true
		}
	}
	return false
}
