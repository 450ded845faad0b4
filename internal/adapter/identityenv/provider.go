// internal/adapter/identityenv/provider.go

// Package identityenv supplies the device user's identity from
// configuration. The replica is per-device, so there is at most one
// authenticated user per process.
package identityenv

import (
	"unispace/internal/domain/identity"
)

// Provider implements identity.Provider over a fixed user snapshot.
type Provider struct {
	user identity.User
}

// New creates a provider for the given user. An empty id means no
// identity is available.
func New(user identity.User) *Provider {
	return &Provider{user: user}
}

// Anonymous creates a provider with no identity.
func Anonymous() *Provider {
	return &Provider{}
}

func (p *Provider) CurrentUser() (identity.User, bool) {
	if p.user.ID == "" {
		return identity.User{}, false
	}
	return p.user, true
}
