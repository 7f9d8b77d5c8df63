package system

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/constants"
	"github.com/julianstephens/habhub/internal/keyring"
	"github.com/julianstephens/habhub/internal/storage/postgres"
)

var errNoStoredConnection = errors.New("no connection string in the keyring, store one with 'habhub keyring set'")

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with its password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Report keyring availability and what is stored." default:"1"`
}

// KeyringSetCmd reads the connection string from stdin when no argument is
// given, which keeps the password out of shell history.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" optional:"" help:"PostgreSQL connection string (read from stdin when omitted)."`

	in io.Reader
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	connStr := strings.TrimSpace(cmd.ConnectionString)
	if connStr == "" {
		line, err := readLine(cmd.input())
		if err != nil {
			return fmt.Errorf("failed to read connection string: %w", err)
		}
		connStr = line
	}
	if !postgres.IsConnString(connStr) {
		return errors.New("not a PostgreSQL connection string (expected postgres://... or key=value form)")
	}

	switch err := postgres.ValidateConnString(connStr); {
	case errors.Is(err, postgres.ErrEmbeddedCredentials):
		// the keyring is the one place a password may live
		fmt.Println("Note: the password is stored as-is in the OS keyring.")
	case err != nil:
		return fmt.Errorf("invalid connection string: %w", err)
	}

	if err := keyring.SetConnectionString(connStr); err != nil {
		return err
	}
	fmt.Println("✓ Connection string stored in OS keyring")
	fmt.Printf("  Used when neither --database nor %s is set\n", constants.EnvDBConnection)
	return nil
}

func (cmd *KeyringSetCmd) input() io.Reader {
	if cmd.in != nil {
		return cmd.in
	}
	return os.Stdin
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("empty input")
	}
	return line, nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errNoStoredConnection
	}
	if err != nil {
		return err
	}
	fmt.Println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errNoStoredConnection
	}
	if err != nil {
		return err
	}
	fmt.Println("✓ Connection string removed from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring is available")

	report := func(what string, get func() (string, error)) {
		v, err := get()
		switch {
		case err == nil:
			fmt.Printf("✓ %s: %s\n", what, v)
		case errors.Is(err, keyring.ErrNotFound):
			fmt.Printf("ℹ %s: not stored\n", what)
		default:
			fmt.Printf("⚠ %s: %v\n", what, err)
		}
	}
	report("Connection string", func() (string, error) {
		connStr, err := keyring.GetConnectionString()
		return maskPassword(connStr), err
	})
	report("Session owner", keyring.GetOwner)
	return nil
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if !strings.Contains(connStr, "://") {
		fields := strings.Fields(connStr)
		for i, f := range fields {
			if strings.HasPrefix(f, "password=") {
				fields[i] = "password=****"
			}
		}
		return strings.Join(fields, " ")
	}

	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return connStr
	}
	if _, has := u.User.Password(); !has {
		return connStr
	}
	u.User = url.UserPassword(u.User.Username(), "****")
	// url escapes the mask
	return strings.Replace(u.String(), "%2A%2A%2A%2A", "****", 1)
}
