package session

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleDoctor   Role = "doctor"
	RoleCustomer Role = "customer"
)

const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUsername     = "username"
	KeyEmail        = "email"
	KeyRole         = "role"
)

// Keys lists every key persisted for a session. Clearing a store removes all of them.
var Keys = []string{KeyAccessToken, KeyRefreshToken, KeyUsername, KeyEmail, KeyRole}

// ParseRole returns the empty role for anything that isn't a known role
func ParseRole(value string) Role {
	switch role := Role(strings.ToLower(strings.TrimSpace(value))); role {
	case RoleDoctor, RoleCustomer:
		return role
	default:
		return ""
	}
}

type Session struct {
	AccessToken  string
	RefreshToken string
	Username     string
	Email        string
	Role         Role
}

func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

func Load(store Store) (Session, error) {
	values := make(map[string]string, len(Keys))
	for _, key := range Keys {
		value, err := store.Get(key)
		if err != nil {
			return Session{}, fmt.Errorf("unable to read %s from session store: %w", key, err)
		}
		values[key] = value
	}

	return Session{
		AccessToken:  values[KeyAccessToken],
		RefreshToken: values[KeyRefreshToken],
		Username:     values[KeyUsername],
		Email:        values[KeyEmail],
		Role:         ParseRole(values[KeyRole]),
	}, nil
}

// Save replaces the persisted session with s
func Save(store Store, s Session) error {
	if err := store.Clear(); err != nil {
		return err
	}

	values := map[string]string{
		KeyAccessToken:  s.AccessToken,
		KeyRefreshToken: s.RefreshToken,
		KeyUsername:     s.Username,
		KeyEmail:        s.Email,
		KeyRole:         string(s.Role),
	}
	for _, key := range Keys {
		if values[key] == "" {
			continue
		}
		if err := store.Set(key, values[key]); err != nil {
			return fmt.Errorf("unable to persist %s: %w", key, err)
		}
	}

	return nil
}

func CurrentRole(store Store) (Role, error) {
	value, err := store.Get(KeyRole)
	if err != nil {
		return "", err
	}
	return ParseRole(value), nil
}
