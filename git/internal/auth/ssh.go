package auth

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	gossh "golang.org/x/crypto/ssh"
)

// SSHAgentProvider authenticates ssh remotes through the running SSH agent
// ($SSH_AUTH_SOCK).
type SSHAgentProvider struct {
	// Username defaults to the user in the URL, then "git".
	Username string

	// HostKeyCallback overrides go-git's known_hosts verification.
	HostKeyCallback gossh.HostKeyCallback

	// AllowedHosts restricts the agent to matching hosts. Empty allows all.
	AllowedHosts []string

	// newAgentAuth is swapped in tests.
	newAgentAuth func(user string) (*ssh.PublicKeysCallback, error)
}

// NewSSHAgentProvider returns a provider backed by the SSH agent.
func NewSSHAgentProvider() *SSHAgentProvider {
	return &SSHAgentProvider{newAgentAuth: ssh.NewSSHAgentAuth}
}

// WithAllowedHosts restricts the agent to the given host patterns.
func (p *SSHAgentProvider) WithAllowedHosts(hosts ...string) *SSHAgentProvider {
	p.AllowedHosts = hosts
	return p
}

// Method returns agent auth for ssh URLs on allowed hosts and declines
// everything else.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *SSHAgentProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	u, err := parseRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	if u.Scheme != "ssh" && u.Scheme != "git+ssh" {
		return nil, nil
	}
	if !hostAllowed(u.Host, p.AllowedHosts) {
		return nil, nil
	}

	user := p.Username
	if user == "" && u.User != nil {
		user = u.User.Username()
	}
	if user == "" {
		user = "git"
	}

	newAuth := p.newAgentAuth
	if newAuth == nil {
		newAuth = ssh.NewSSHAgentAuth
	}

	auth, err := newAuth(user)
	if err != nil {
		return nil, fmt.Errorf("ssh agent unavailable: %w", err)
	}
	if p.HostKeyCallback != nil {
		auth.HostKeyCallback = p.HostKeyCallback
	}

	return auth, nil
}
