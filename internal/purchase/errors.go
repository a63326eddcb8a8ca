package purchase

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when no signed-in user is available.
var ErrUnauthenticated = errors.New("unauthenticated: no signed-in user")

// ValidationError rejects an input before any I/O happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError reports a document store failure during a step of the
// purchase. The purchase can be retried as a whole.
type PersistenceError struct {
	Step string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// shortfallError aborts the commit transaction when the wallet cannot cover
// a wallet purchase. It never leaves this package.
type shortfallError struct {
	shortfall *Shortfall
}

func (e *shortfallError) Error() string {
	return fmt.Sprintf("wallet short by %s", e.shortfall.Shortfall.String())
}
