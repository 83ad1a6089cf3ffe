// Package credentials keeps the bearer credential of the current session.
//
// There is exactly one place a credential lives, chosen once by Scope:
//
//   - ScopeDurable: the local SQLite metadata table, survives restarts;
//   - ScopeEphemeral: process memory, gone when the client exits.
//
// Every reader and writer goes through the Store returned by New, so the
// REST wrapper, the session store and the real-time channel always agree on
// the current token.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Scope string

const (
	ScopeDurable   Scope = "durable"
	ScopeEphemeral Scope = "ephemeral"
)

var ErrUnknownScope = errors.New("unknown credential scope")

// ParseScope validates a configured scope name.
func ParseScope(s string) (Scope, error) {
	switch sc := Scope(strings.ToLower(strings.TrimSpace(s))); sc {
	case ScopeDurable, ScopeEphemeral:
		return sc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}

// Store holds at most one credential.
type Store interface {
	// Load returns the current token, or "" when none is stored.
	Load(ctx context.Context) (string, error)
	// Save replaces the current token.
	Save(ctx context.Context, token string) error
	// Clear forgets the token. Clearing an empty store is not an error.
	// The last user id is kept.
	Clear(ctx context.Context) error
	// SaveUserID records whose credential was saved last.
	SaveUserID(ctx context.Context, id string) error
	// Info describes what is stored.
	Info(ctx context.Context) (Info, error)
}

// Info is what a Store knows beyond the token itself.
type Info struct {
	HasToken bool
	// SavedAt is zero when no token is stored.
	SavedAt    time.Time
	LastUserID string
}

// New returns the Store for scope. db is only used by ScopeDurable.
func New(scope Scope, db *sql.DB) (Store, error) {
	switch scope {
	case ScopeDurable:
		if db == nil {
			return nil, errors.New("durable credential store needs a database")
		}
		return NewDurable(db), nil
	case ScopeEphemeral:
		return NewEphemeral(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
}
