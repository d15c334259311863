package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalAccounts is a self-hosted provider: bcrypt hashes in a Credentials
// backend, sessions as JWTs from issuer.
type LocalAccounts struct {
	issuer *JWT
	creds  Credentials
	cost   int
}

var _ Accounts = (*LocalAccounts)(nil)

func NewLocalAccounts(issuer *JWT, creds Credentials) *LocalAccounts {
	return &LocalAccounts{
		issuer: issuer,
		creds:  creds,
		cost:   bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (l *LocalAccounts) SignUp(ctx context.Context, email, password string) (Principal, error) {
	email = normalizeEmail(email)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return Principal{}, err
	}

	c := Credential{Subject: uuid.NewString(), PasswordHash: hashed}
	if err := l.creds.Create(ctx, email, c); err != nil {
		return Principal{}, err
	}

	return Principal{Subject: c.Subject, Email: email}, nil
}

func (l *LocalAccounts) SignIn(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	c, ok, err := l.creds.Lookup(ctx, email)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return l.issuer.Issue(Principal{Subject: c.Subject, Email: email})
}
