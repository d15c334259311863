// Package identity authenticates principals. The portal only relies on the
// verified email; accounts live with the provider, never in the document tree.
package identity

import (
	"context"
	"errors"
)

var (
	ErrEmailInUse         = errors.New("identity: email already in use")
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrInvalidToken       = errors.New("identity: invalid token")
)

type Principal struct {
	Subject string
	Email   string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// Accounts is the credential side of the provider.
type Accounts interface {
	SignUp(ctx context.Context, email, password string) (Principal, error)
	SignIn(ctx context.Context, email, password string) (string, error)
}
