// SPDX-License-Identifier: MPL-2.0

package dictfile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateKey is returned when adding a key that is already bound.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrDuplicateValue is returned when a two-key store already holds the value.
	ErrDuplicateValue = errors.New("duplicate value")
	// ErrIncompatibleValue is returned when an overwrite is rejected by the codec.
	ErrIncompatibleValue = errors.New("incompatible value")
	// ErrReadOnly is returned when modifying a store marked readonly.
	ErrReadOnly = errors.New("store is readonly")
	// ErrKeyNotFound is returned when looking up a key that is not bound.
	ErrKeyNotFound = errors.New("key not found")
	// ErrMalformedLine is returned when a line has the wrong number of columns.
	ErrMalformedLine = errors.New("malformed line")
	// ErrInvalidValue is returned when a value fails the codec's shape checks.
	ErrInvalidValue = errors.New("invalid value")
	// ErrEmptyKey is returned when adding a record with an empty key.
	ErrEmptyKey = errors.New("empty key")
	// ErrInvalidOrdering is returned when a store is constructed with an unknown Ordering.
	ErrInvalidOrdering = errors.New("invalid ordering")
)

type (
	// DuplicateKeyError is returned by Add when the key already exists.
	// It wraps ErrDuplicateKey for errors.Is() compatibility.
	DuplicateKeyError struct {
		Key string
	}

	// DuplicateValueError is returned by TwoKeyStore when the value is already bound
	// to another key. It wraps ErrDuplicateValue for errors.Is() compatibility.
	DuplicateValueError struct {
		Value string
	}

	// IncompatibleValueError is returned by Set when the codec rejects replacing
	// Old with New. It wraps ErrIncompatibleValue for errors.Is() compatibility.
	IncompatibleValueError struct {
		Key string
		Old any
		New any
	}

	// ReadOnlyError is returned by Add and Set while the store is readonly.
	// It wraps ErrReadOnly for errors.Is() compatibility.
	ReadOnlyError struct {
		Key string
	}

	// KeyNotFoundError is returned by Get and LookupByValue on a miss.
	// It wraps ErrKeyNotFound for errors.Is() compatibility.
	KeyNotFoundError struct {
		Key string
	}

	// MalformedLineError reports a line whose column count does not match the
	// codec's grammar. It wraps ErrMalformedLine for errors.Is() compatibility.
	MalformedLineError struct {
		Kind     string
		Expected int
		Actual   int
		Line     string
	}

	// InvalidValueError reports a value field outside its allowed set.
	// It wraps ErrInvalidValue for errors.Is() compatibility.
	InvalidValueError struct {
		Key     string
		Field   string
		Value   string
		Allowed []string
	}

	// ParseError annotates any failure raised while loading a file with the
	// file path and the 1-based line number.
	ParseError struct {
		Path string
		Line int
		Err  error
	}

	// IOError wraps a filesystem failure with the operation and resolved path.
	IOError struct {
		Op   string
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key %q already exists", e.Key)
}

// Unwrap returns ErrDuplicateKey so callers can use errors.Is for classification.
func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// Error implements the error interface.
func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("value %q already exists", e.Value)
}

// Unwrap returns ErrDuplicateValue so callers can use errors.Is for classification.
func (e *DuplicateValueError) Unwrap() error { return ErrDuplicateValue }

// Error implements the error interface.
func (e *IncompatibleValueError) Error() string {
	return fmt.Sprintf("key %q: value %v not compatible with old value %v", e.Key, e.New, e.Old)
}

// Unwrap returns ErrIncompatibleValue so callers can use errors.Is for classification.
func (e *IncompatibleValueError) Unwrap() error { return ErrIncompatibleValue }

// Error implements the error interface.
func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("cannot add key %q: store is readonly", e.Key)
}

// Unwrap returns ErrReadOnly so callers can use errors.Is for classification.
func (e *ReadOnlyError) Unwrap() error { return ErrReadOnly }

// Error implements the error interface.
func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found", e.Key)
}

// Unwrap returns ErrKeyNotFound so callers can use errors.Is for classification.
func (e *KeyNotFoundError) Unwrap() error { return ErrKeyNotFound }

// Error implements the error interface.
func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("not a valid %s line (expected %d, found %d elements): %q",
		e.Kind, e.Expected, e.Actual, e.Line)
}

// Unwrap returns ErrMalformedLine so callers can use errors.Is for classification.
func (e *MalformedLineError) Unwrap() error { return ErrMalformedLine }

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("key %q: invalid %s %q, should be one of %s",
		e.Key, e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// Unwrap returns ErrInvalidValue so callers can use errors.Is for classification.
func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("file %s, line %d: %v", e.Path, e.Line, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *IOError) Unwrap() error { return e.Err }
