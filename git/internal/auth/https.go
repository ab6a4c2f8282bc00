package auth

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// TokenUsername is the basic-auth username sent with access tokens.
// GitHub ignores it; other hosts require a non-empty value.
const TokenUsername = "x-access-token"

// HTTPSTokenProvider authenticates https:// remotes with an access token.
type HTTPSTokenProvider struct {
	auth *http.BasicAuth

	// AllowedHosts restricts the token to matching hosts. Empty allows all.
	AllowedHosts []string
}

// NewHTTPSTokenProvider returns a provider that sends token as the basic-auth password.
func NewHTTPSTokenProvider(token string) *HTTPSTokenProvider {
	return &HTTPSTokenProvider{
		auth: &http.BasicAuth{Username: TokenUsername, Password: token},
	}
}

// WithAllowedHosts restricts the token to the given host patterns.
func (p *HTTPSTokenProvider) WithAllowedHosts(hosts ...string) *HTTPSTokenProvider {
	p.AllowedHosts = hosts
	return p
}

// Method returns the token auth for https URLs on allowed hosts and declines
// everything else.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *HTTPSTokenProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	u, err := parseRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	if u.Scheme != "https" || !hostAllowed(u.Host, p.AllowedHosts) {
		return nil, nil
	}

	return p.auth, nil
}
