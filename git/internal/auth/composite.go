package auth

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// CompositeProvider asks each provider in order and returns the first
// non-nil method.
type CompositeProvider struct {
	providers []Provider

	// ContinueOnError keeps trying later providers after one fails.
	ContinueOnError bool
}

// NewCompositeProvider creates an empty composite that continues on errors.
func NewCompositeProvider(providers ...Provider) *CompositeProvider {
	return &CompositeProvider{providers: providers, ContinueOnError: true}
}

// Add appends a provider to the chain.
func (c *CompositeProvider) Add(p Provider) *CompositeProvider {
	c.providers = append(c.providers, p)
	return c
}

// Len returns the number of providers in the chain.
func (c *CompositeProvider) Len() int {
	return len(c.providers)
}

// Method returns the first method a provider offers for remoteURL. When every
// provider declines, it returns nil so the operation proceeds anonymously.
//
//nolint:ireturn // transport.AuthMethod is an interface required by go-git
func (c *CompositeProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	var lastErr error

	for i, p := range c.providers {
		method, err := p.Method(remoteURL)
		if err != nil {
			lastErr = fmt.Errorf("provider %d: %w", i, err)
			if !c.ContinueOnError {
				return nil, lastErr
			}
			continue
		}
		if method != nil {
			return method, nil
		}
	}

	return nil, lastErr
}
