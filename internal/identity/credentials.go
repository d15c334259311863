package identity

import (
	"context"
	"sync"
)

// Credential is what the provider keeps per email. Emails arrive normalised.
type Credential struct {
	Subject      string `json:"subject"`
	PasswordHash []byte `json:"passwordHash"`
}

// Credentials persists accounts. Create returns ErrEmailInUse when the email
// is taken; Lookup reports found=false for an unknown email.
type Credentials interface {
	Create(ctx context.Context, email string, c Credential) error
	Lookup(ctx context.Context, email string) (Credential, bool, error)
}

// MemoryCredentials keeps accounts for the lifetime of the process.
type MemoryCredentials struct {
	mu       sync.RWMutex
	accounts map[string]Credential
}

var _ Credentials = (*MemoryCredentials)(nil)

func NewMemoryCredentials() *MemoryCredentials {
	return &MemoryCredentials{accounts: make(map[string]Credential)}
}

func (m *MemoryCredentials) Create(_ context.Context, email string, c Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[email]; exists {
		return ErrEmailInUse
	}
	m.accounts[email] = c
	return nil
}

func (m *MemoryCredentials) Lookup(_ context.Context, email string) (Credential, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.accounts[email]
	return c, ok, nil
}
