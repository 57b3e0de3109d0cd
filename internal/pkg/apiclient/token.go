package apiclient

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/morshidulrahman/testomg-babe/internal/pkg/env"
)

// ErrNoToken is returned by a TokenSource that holds no session.
var ErrNoToken = errors.New("no access token")

// TokenSource supplies the session token sent as Bearer credential.
type TokenSource interface {
	Token() (string, error)
}

// StaticTokenSource always returns the same token.
type StaticTokenSource string

func (s StaticTokenSource) Token() (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// FileTokenSource keeps the token in a file with owner-only permissions.
type FileTokenSource struct {
	Path string
}

// DefaultTokenPath returns ACCESS_TOKEN_FILE or <user config dir>/<app>/access_token.
func DefaultTokenPath(app string) (string, error) {
	if p := env.GetEnv("ACCESS_TOKEN_FILE", ""); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, app, "access_token"), nil
}

func (f FileTokenSource) Token() (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (f FileTokenSource) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, []byte(strings.TrimSpace(token)+"\n"), 0o600)
}

// Clear removes the stored token. A missing file is not an error.
func (f FileTokenSource) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
