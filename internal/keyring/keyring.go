// Package keyring keeps the shared database connection string out of config files.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/freeweek/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Target is the database setting that means "read the connection string from the keyring".
const Target = "keyring"

// IsTarget reports whether a database setting points at the keyring.
func IsTarget(database string) bool {
	return strings.EqualFold(strings.TrimSpace(database), Target)
}

func get(user string) (string, error) {
	value, err := keyring.Get(constants.AppName, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// GetConnectionString returns the stored connection string, or ErrNotFound.
func GetConnectionString() (string, error) {
	return get(constants.DefaultKeyringUser)
}

// SetConnectionString stores connStr, which may carry a password.
func SetConnectionString(connStr string) error {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable makes a throwaway read to see whether a keyring backend answers.
func IsAvailable() bool {
	_, err := get("availability-probe")
	return err == nil || errors.Is(err, ErrNotFound)
}

// Redact hides the password of a connection string for display.
func Redact(connStr string) string {
	scheme, rest, ok := strings.Cut(connStr, "://")
	if !ok {
		fields := strings.Fields(connStr)
		for i, f := range fields {
			if strings.HasPrefix(f, "password=") {
				fields[i] = "password=****"
			}
		}
		return strings.Join(fields, " ")
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return connStr
	}
	user, _, hasPassword := strings.Cut(userinfo, ":")
	if !hasPassword {
		return connStr
	}
	return scheme + "://" + user + ":****@" + host
}
