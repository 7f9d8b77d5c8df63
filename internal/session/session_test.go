package session

import (
	"context"
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habhub/internal/keyring"
)

type failing struct{ err error }

func (f failing) OwnerID(context.Context) (string, error) { return "", f.err }

func TestStatic(t *testing.T) {
	if _, err := Static("").OwnerID(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("empty static = %v", err)
	}
	owner, err := Static("u").OwnerID(context.Background())
	if err != nil || owner != "u" {
		t.Errorf("Static(u) = %q, %v", owner, err)
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("HABHUB_TEST_OWNER", "env-user")
	owner, err := Env("HABHUB_TEST_OWNER").OwnerID(context.Background())
	if err != nil || owner != "env-user" {
		t.Errorf("Env = %q, %v", owner, err)
	}
	if _, err := Env("HABHUB_TEST_UNSET_OWNER").OwnerID(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("unset env = %v", err)
	}
}

func TestKeyring(t *testing.T) {
	gokeyring.MockInit()
	if _, err := (Keyring{}).OwnerID(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("empty keyring = %v", err)
	}
	if err := keyring.SetOwner("kr-user"); err != nil {
		t.Fatal(err)
	}
	owner, err := (Keyring{}).OwnerID(context.Background())
	if err != nil || owner != "kr-user" {
		t.Errorf("Keyring = %q, %v", owner, err)
	}
}

func TestChain(t *testing.T) {
	ctx := context.Background()

	owner, err := Chain(Static(""), Static("second")).OwnerID(ctx)
	if err != nil || owner != "second" {
		t.Errorf("chain = %q, %v", owner, err)
	}

	if _, err := Chain(Static(""), Static(" ")).OwnerID(ctx); !errors.Is(err, ErrNoSession) {
		t.Errorf("all empty = %v", err)
	}

	boom := errors.New("keyring locked")
	if _, err := Chain(failing{boom}, Static("never")).OwnerID(ctx); !errors.Is(err, boom) {
		t.Errorf("hard errors should stop the chain, got %v", err)
	}
}
