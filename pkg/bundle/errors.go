// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"errors"
	"fmt"
)

var (
	// ErrEntryNotFound is returned when a composite has no entry of the given name.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrEntryExists is returned when adding an entry name twice.
	ErrEntryExists = errors.New("entry already exists")
	// ErrMissingRole is returned when a description does not locate an indexed role.
	ErrMissingRole = errors.New("role missing from description")
)

type (
	// OpError records the bundle, role and operation that failed.
	OpError struct {
		Op     string
		Bundle string
		Role   Role
		Err    error
	}

	// EntryNotFoundError is returned by Composite.Entry on a miss.
	// It wraps ErrEntryNotFound for errors.Is() compatibility.
	EntryNotFoundError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Bundle, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Bundle, e.Role, e.Err)
}

// Unwrap returns the underlying cause.
func (e *OpError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("entry %q not found", e.Name)
}

// Unwrap returns ErrEntryNotFound so callers can use errors.Is for classification.
func (e *EntryNotFoundError) Unwrap() error { return ErrEntryNotFound }
