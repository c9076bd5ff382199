// SPDX-License-Identifier: MPL-2.0

package dictfile

import (
	"fmt"
	"strings"
	"unicode"
)

type (
	// Codec is the line grammar of one artifact kind. A single generic Store is
	// parameterized by a Codec instead of subclassing per kind.
	Codec[V comparable] interface {
		// Kind names the grammar in error messages (e.g. "var", "subsystem").
		Kind() string
		// FormatLine renders one record as it is written to disk.
		FormatLine(key string, val V) string
		// ParseLine parses one raw line. ok is false for lines that carry no
		// record (comments, blank lines).
		ParseLine(line string) (key string, val V, ok bool, err error)
		// Validate checks the value shape before it is stored.
		Validate(key string, val V) error
		// Compatible reports whether old may be replaced by new on overwrite.
		Compatible(oldVal, newVal V) bool
		// Header is written verbatim before the records; "" means no header.
		Header() string
	}

	// PlainCodec is the default "key value" grammar used by attrs, consts and params.
	// A line holding only a key reads as an empty value.
	PlainCodec struct{}
)

// splitFields splits line on runs of whitespace into at most n fields.
// Leading whitespace is ignored and the last field keeps any embedded
// whitespace. n <= 0 means no limit.
func splitFields(line string, n int) []string {
	var fields []string
	rest := strings.TrimLeftFunc(line, unicode.IsSpace)
	for rest != "" {
		if n > 0 && len(fields) == n-1 {
			fields = append(fields, rest)
			break
		}
		i := strings.IndexFunc(rest, unicode.IsSpace)
		if i < 0 {
			fields = append(fields, rest)
			break
		}
		fields = append(fields, rest[:i])
		rest = strings.TrimLeftFunc(rest[i:], unicode.IsSpace)
	}
	return fields
}

// isComment reports whether line is a comment. Only a '#' in the very first
// column starts a comment.
func isComment(line string) bool {
	return line != "" && line[0] == '#'
}

// exactFields splits line into exactly n fields or returns a MalformedLineError.
// The empty result means the line is blank.
func exactFields(kind, line string, n int) ([]string, error) {
	fields := splitFields(line, n)
	if len(fields) == 0 {
		return nil, nil
	}
	if len(fields) != n {
		return nil, &MalformedLineError{Kind: kind, Expected: n, Actual: len(fields), Line: line}
	}
	return fields, nil
}

// checkToken rejects values that would not survive a round trip in a
// column other than the last one.
func checkToken(key, field, value string) error {
	if value == "" || strings.ContainsFunc(value, unicode.IsSpace) {
		return fmt.Errorf("%w: key %q: %s %q must be a single non-empty token", ErrInvalidValue, key, field, value)
	}
	return nil
}

// checkFirst is checkToken for the first column, where a leading '#' would
// turn the record into a comment.
func checkFirst(key, field, value string) error {
	if err := checkToken(key, field, value); err != nil {
		return err
	}
	if isComment(value) {
		return fmt.Errorf("%w: key %q: %s %q must not start with '#'", ErrInvalidValue, key, field, value)
	}
	return nil
}

// checkLast rejects last-column values that would not read back unchanged:
// line breaks split the record and leading whitespace is dropped.
func checkLast(key, field, value string, optional bool) error {
	if value == "" {
		if optional {
			return nil
		}
		return fmt.Errorf("%w: key %q: %s is required", ErrInvalidValue, key, field)
	}
	if strings.ContainsAny(value, "\r\n") || strings.TrimLeftFunc(value, unicode.IsSpace) != value {
		return fmt.Errorf("%w: key %q: %s %q must be a single line without leading whitespace", ErrInvalidValue, key, field, value)
	}
	return nil
}

// Kind implements Codec.
func (PlainCodec) Kind() string { return "attribute" }

// FormatLine implements Codec.
func (PlainCodec) FormatLine(key, val string) string {
	return fmt.Sprintf("%s \t%s", key, val)
}

// ParseLine implements Codec.
func (PlainCodec) ParseLine(line string) (key, val string, ok bool, err error) {
	if isComment(line) {
		return "", "", false, nil
	}
	fields := splitFields(line, 2)
	switch len(fields) {
	case 0:
		return "", "", false, nil
	case 1:
		return fields[0], "", true, nil
	default:
		return fields[0], fields[1], true, nil
	}
}

// Validate implements Codec.
func (PlainCodec) Validate(key, val string) error {
	if err := checkFirst(key, "key", key); err != nil {
		return err
	}
	return checkLast(key, "value", val, true)
}

// Compatible implements Codec; every value is compatible.
func (PlainCodec) Compatible(string, string) bool { return true }

// Header implements Codec.
func (PlainCodec) Header() string { return "" }
