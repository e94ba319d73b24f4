// Package keyring keeps the PostgreSQL connection string in the OS keyring
// so that passwords never have to appear in flags or config files.
package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/storage/postgres"
)

var (
	// ErrNotFound is returned when no connection string is stored
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Credentials addresses one keyring entry.
type Credentials struct {
	Service string
	User    string
}

// Default is the entry the CLI reads for --db keyring.
func Default() Credentials {
	return Credentials{Service: constants.AppName, User: constants.DefaultKeyringUser}
}

// Get returns the stored connection string.
func (c Credentials) Get() (string, error) {
	connStr, err := gokeyring.Get(c.Service, c.User)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// Set stores a PostgreSQL connection string. Unlike --db, the stored value
// may carry a password.
func (c Credentials) Set(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if !postgres.IsConnString(connStr) && !postgres.IsDSN(connStr) {
		return fmt.Errorf("%w: expected a postgres:// URL or a host=... string", postgres.ErrInvalidConnectionString)
	}
	if err := gokeyring.Set(c.Service, c.User, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes the stored connection string.
func (c Credentials) Delete() error {
	err := gokeyring.Delete(c.Service, c.User)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Status reports whether the keyring answers and whether an entry is stored.
func (c Credentials) Status() (available, stored bool) {
	_, err := c.Get()
	switch {
	case err == nil:
		return true, true
	case errors.Is(err, ErrNotFound):
		return true, false
	default:
		return false, false
	}
}
