// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"userhub/internal/errors"

	"github.com/google/uuid"
)

// AccountID is the canonical identifier of an account, from token issuance
// through storage through lookup. The store generates it on creation.
type AccountID uuid.UUID

// NilAccountID is the zero AccountID; no stored account ever carries it.
var NilAccountID = AccountID(uuid.Nil)

// ErrNilAccountID is returned by ParseAccountID for the all-zero identifier.
var ErrNilAccountID = errors.New("account id must not be nil")

// ParseAccountID is the single place where an untrusted identifier string is
// turned into an AccountID.
func ParseAccountID(raw string) (AccountID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return NilAccountID, errors.Wrap(err, "parse account id")
	}
	if id == uuid.Nil {
		return NilAccountID, ErrNilAccountID
	}

	return AccountID(id), nil
}

// NewAccountID generates a time-ordered identifier for a new account.
func NewAccountID() (AccountID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return NilAccountID, errors.Wrap(err, "generate account id")
	}

	return AccountID(id), nil
}

// String returns the canonical hyphenated form.
func (id AccountID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether id is the zero identifier.
func (id AccountID) IsNil() bool {
	return id == NilAccountID
}

// MarshalText keeps encoded logs and documents in the canonical string form.
func (id AccountID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// Account is a registered user's stored identity and credential record.
type Account struct {
	ID           AccountID // Immutable identifier assigned by the store on insert.
	Username     string    // Unique, case-sensitive login name.
	Email        string    // Unique contact address.
	PasswordHash string    // One-way hash of the password; never leaves the service boundary.
	FirstName    *string   // Optional given name; nil when never provided.
	LastName     *string   // Optional family name; nil when never provided.
	CreatedAt    time.Time // Timestamp of registration.
	UpdatedAt    time.Time // Timestamp of the last mutation.
}

// Redacted returns a copy of the account with the password hash removed.
func (a *Account) Redacted() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	cp.PasswordHash = ""

	return &cp
}
