// Package keyring stores habhub secrets in the OS keyring: the postgres
// connection string and the session owner id.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habhub/internal/constants"
)

var (
	// ErrNotFound is returned when nothing is stored under the account
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(account string) (string, error) {
	value, err := keyring.Get(constants.AppName, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

func set(account, value, what string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if err := keyring.Set(constants.AppName, account, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", what, err)
	}
	return nil
}

func remove(account string) error {
	err := keyring.Delete(constants.AppName, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// GetConnectionString returns the stored database connection string.
func GetConnectionString() (string, error) { return get(constants.DefaultKeyringUser) }

func SetConnectionString(connStr string) error {
	return set(constants.DefaultKeyringUser, connStr, "connection string")
}

func DeleteConnectionString() error { return remove(constants.DefaultKeyringUser) }

// GetOwner returns the owner id of the stored session.
func GetOwner() (string, error) { return get(constants.SessionKeyringUser) }

func SetOwner(ownerID string) error {
	return set(constants.SessionKeyringUser, ownerID, "owner id")
}

func DeleteOwner() error { return remove(constants.SessionKeyringUser) }

// IsAvailable is a best-effort probe: a read that fails with anything other
// than not-found means there is no usable keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
