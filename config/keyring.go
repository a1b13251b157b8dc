package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"
)

// keyringService is the OS keychain service Postgres passwords live under,
// keyed by database user.
const keyringService = "slugline-postgres"

// ErrNoDSN is returned when no Postgres DSN is configured.
var ErrNoDSN = errors.New("no postgres DSN configured")

// SetPostgresPassword stores the password of a database user in the OS
// keychain.
func SetPostgresPassword(user, password string) error {
	if user == "" {
		return errors.New("empty database user")
	}
	return keyring.Set(keyringService, user, password)
}

// DeletePostgresPassword removes a stored password. Removing a password
// that is not stored is not an error.
func DeletePostgresPassword(user string) error {
	err := keyring.Delete(keyringService, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// PostgresDSN returns the configured DSN with the password filled in from
// the OS keychain when the DSN names a user but no password. Both URL and
// key=value forms are understood.
func (c Config) PostgresDSN() (string, error) {
	dsn := strings.TrimSpace(c.Store.PostgresDSN)
	if dsn == "" {
		return "", ErrNoDSN
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("invalid postgres DSN: %w", err)
		}
		if u.User == nil {
			return dsn, nil
		}
		if _, ok := u.User.Password(); ok {
			return dsn, nil
		}
		pw, err := lookupPassword(u.User.Username())
		if err != nil || pw == "" {
			return dsn, err
		}
		u.User = url.UserPassword(u.User.Username(), pw)
		return u.String(), nil
	}

	var user string
	for _, field := range strings.Fields(dsn) {
		k, v, _ := strings.Cut(field, "=")
		switch k {
		case "password":
			return dsn, nil
		case "user":
			user = strings.Trim(v, "'")
		}
	}
	if user == "" {
		return dsn, nil
	}
	pw, err := lookupPassword(user)
	if err != nil || pw == "" {
		return dsn, err
	}
	return dsn + " password=" + quoteValue(pw), nil
}

func lookupPassword(user string) (string, error) {
	pw, err := keyring.Get(keyringService, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("keychain lookup for %s: %w", user, err)
	}
	return pw, nil
}

// quoteValue quotes a key=value connection string value.
func quoteValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
