// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize is the largest document Decode accepts (1MB).
const DefaultMaxFileSize int64 = 1 << 20

type (
	// Schema is a CUE definition, such as "#Config", inside a schema source.
	Schema struct {
		source     string
		definition string
	}

	decodeOptions struct {
		maxFileSize int64
		concrete    bool
		filename    string
	}

	// Option configures Decode.
	Option func(*decodeOptions)
)

// NewSchema names the definition documents are checked against.
func NewSchema(source, definition string) Schema {
	return Schema{source: source, definition: definition}
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *decodeOptions) { o.maxFileSize = size }
}

// WithConcrete sets whether every field must be concrete after unification.
// Configuration files, where every field is optional, pass false.
func WithConcrete(concrete bool) Option {
	return func(o *decodeOptions) { o.concrete = concrete }
}

// WithFilename sets the filename reported in errors.
func WithFilename(name string) Option {
	return func(o *decodeOptions) { o.filename = name }
}

// Decode unifies data with the schema definition, validates the result and
// decodes it into a T. Errors in data are reported by FormatError; errors in
// the schema itself are internal errors.
func Decode[T any](s Schema, data []byte, opts ...Option) (T, error) {
	var zero T
	o := decodeOptions{maxFileSize: DefaultMaxFileSize, concrete: true, filename: "<input>"}
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return zero, err
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(s.source)
	if err := schema.Err(); err != nil {
		return zero, fmt.Errorf("internal error: compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath(s.definition))
	if err := def.Err(); err != nil {
		return zero, fmt.Errorf("internal error: schema definition %s: %w", s.definition, err)
	}

	doc := ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := doc.Err(); err != nil {
		return zero, FormatError(err, o.filename)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return zero, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return zero, FormatError(err, o.filename)
	}
	return out, nil
}
