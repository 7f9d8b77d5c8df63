package system

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/keyring"
	"github.com/julianstephens/habhub/internal/session"
)

type SessionCmd struct {
	Login  SessionLoginCmd  `cmd:"" help:"Remember an owner id in the OS keyring."`
	Logout SessionLogoutCmd `cmd:"" help:"Forget the stored owner id."`
	Status SessionStatusCmd `cmd:"" help:"Show the active owner." default:"1"`
}

type SessionLoginCmd struct {
	Owner string `arg:"" help:"Owner id to track habits as."`
}

func (c *SessionLoginCmd) Run(ctx *cli.Context) error {
	owner := strings.TrimSpace(c.Owner)
	if owner == "" {
		return errors.New("owner id cannot be empty")
	}
	if err := keyring.SetOwner(owner); err != nil {
		return err
	}
	fmt.Printf("✓ Logged in as %s\n", owner)
	return nil
}

type SessionLogoutCmd struct{}

func (c *SessionLogoutCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteOwner(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Println("No stored session.")
			return nil
		}
		return err
	}
	fmt.Println("✓ Logged out")
	return nil
}

type SessionStatusCmd struct{}

func (c *SessionStatusCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if errors.Is(err, session.ErrNoSession) {
		fmt.Println("No active session. Use 'habhub session login <owner>', --owner or " +
			"the HABHUB_OWNER environment variable.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Active owner: %s\n", owner)
	return nil
}
