// Package identity resolves the owner of the dashboard. Deployments are
// single-user, so the provider is a static value from configuration rather
// than a session lookup.
package identity

import "context"

// User is the resolved dashboard owner.
type User struct {
	ID    string
	Email string
}

// Provider answers who the current user is.
type Provider interface {
	WhoAmI(ctx context.Context) (User, error)
}

type staticProvider struct {
	user User
}

// NewStatic returns a provider that always resolves to the given user.
func NewStatic(id, email string) Provider {
	return &staticProvider{user: User{ID: id, Email: email}}
}

func (p *staticProvider) WhoAmI(ctx context.Context) (User, error) {
	return p.user, nil
}
