// internal/domain/identity/identity.go

package identity

// User is a read-only snapshot of the authenticated user. The sync
// core never mutates it and never re-resolves it after capture.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	University string `json:"university"`
}

// Provider supplies the current authenticated user, if any.
type Provider interface {
	// CurrentUser returns the authenticated user snapshot and true,
	// or a zero value and false when no identity is available.
	CurrentUser() (User, bool)
}
