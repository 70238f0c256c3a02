package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"
)

// sessionTTL bounds how long a login is reused without a password.
const sessionTTL = 24 * time.Hour

// sessionFile is the signed-in account remembered between invocations.
type sessionFile struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "recipe-keeper")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "recipe-keeper")
}

func sessionPath() string { return filepath.Join(cfgDir(), "session.json") }

func saveSession(s sessionFile) error {
	if err := os.MkdirAll(cfgDir(), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(sessionPath(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func loadSession() (sessionFile, error) {
	var s sessionFile
	b, err := os.ReadFile(sessionPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, errors.New("not logged in (run login first)")
		}
		return s, err
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, err
	}
	if s.UserID == uuid.Nil || time.Now().After(s.ExpiresAt) {
		return sessionFile{}, errors.New("session expired (run login again)")
	}
	return s, nil
}

func clearSession() error {
	err := os.Remove(sessionPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
