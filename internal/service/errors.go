package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalid           = errors.New("invalid input")
	ErrPropertyOccupied  = errors.New("property already has an active tenant")
	ErrProtectedCategory = errors.New("category cannot be deleted")
	ErrNotSignedIn       = errors.New("not signed in")
	ErrAlreadySignedIn   = errors.New("already signed in")
	ErrMigrating         = errors.New("guest data migration in progress")
)

// MigrationError reports a failed guest-to-account migration.
// AccountCreated is true when the account exists but its data was not written,
// in which case the guest data is still the only copy.
type MigrationError struct {
	UserID         string
	AccountCreated bool
	Err            error
}

func (e *MigrationError) Error() string {
	if e.AccountCreated {
		return fmt.Sprintf("account %s created but guest data was not uploaded: %v", e.UserID, e.Err)
	}
	return fmt.Sprintf("failed to create account: %v", e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
