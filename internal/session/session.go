// Package session supplies the owner id every read and write is scoped to.
package session

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/julianstephens/habhub/internal/keyring"
)

// ErrNoSession means no owner identity is available. Retrying a write
// cannot fix it.
var ErrNoSession = errors.New("no active session")

// Provider resolves the current owner.
type Provider interface {
	OwnerID(ctx context.Context) (string, error)
}

// Static is a fixed owner id, typically from config or a flag. The empty
// value has no session.
type Static string

func (s Static) OwnerID(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoSession
	}
	return string(s), nil
}

// Env reads the owner id from an environment variable.
type Env string

func (e Env) OwnerID(ctx context.Context) (string, error) {
	return Static(os.Getenv(string(e))).OwnerID(ctx)
}

// Keyring reads the owner id stored by 'habhub session login'.
type Keyring struct{}

func (Keyring) OwnerID(context.Context) (string, error) {
	owner, err := keyring.GetOwner()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return owner, nil
}

type chain []Provider

// Chain returns the first owner any provider resolves. Providers that
// report ErrNoSession are skipped; other errors stop the chain.
func Chain(providers ...Provider) Provider {
	return chain(providers)
}

func (c chain) OwnerID(ctx context.Context) (string, error) {
	for _, p := range c {
		owner, err := p.OwnerID(ctx)
		if err == nil {
			return owner, nil
		}
		if !errors.Is(err, ErrNoSession) {
			return "", err
		}
	}
	return "", ErrNoSession
}
