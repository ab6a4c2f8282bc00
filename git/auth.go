package git

import (
	"github.com/input-output-hk/daily-contributor/git/internal/auth"
)

// NewEnvAuthProvider builds an AuthProvider from credentials already present
// in the environment: token is sent to https remotes and, when sshAgent is
// set, the SSH agent serves ssh remotes. It returns nil when neither is
// available, in which case remotes are accessed anonymously.
//
//nolint:ireturn // AuthProvider is the contract Options consumes
func NewEnvAuthProvider(token string, sshAgent bool) AuthProvider {
	c := auth.NewCompositeProvider()

	if token != "" {
		c.Add(auth.NewHTTPSTokenProvider(token))
	}
	if sshAgent {
		c.Add(auth.NewSSHAgentProvider())
	}

	if c.Len() == 0 {
		return nil
	}
	return c
}
