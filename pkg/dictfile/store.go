// SPDX-License-Identifier: MPL-2.0

package dictfile

import (
	"fmt"
	"path/filepath"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// OrderInsertion saves keys in insertion order; order is ignored by Equal.
	OrderInsertion Ordering = iota
	// OrderSorted sorts keys lexicographically on Save.
	OrderSorted
	// OrderSignificant preserves insertion order and compares it in Equal.
	OrderSignificant
)

type (
	// Ordering selects how a store orders its keys. Sorting on save and
	// significant insertion order are exclusive by construction.
	Ordering int

	// Record is one key/value pair as exposed to generic consumers.
	Record struct {
		Key   string
		Value any
	}

	// Dict is the kind-independent view of a store used by bundles.
	Dict interface {
		Kind() string
		Dir() string
		Filename() string
		Path() string
		Len() int
		Keys() []string
		Records() []Record
		Erase()
		SetReadonly(readonly bool)
		IsReadonly() bool
		Save(opts ...FileOption) error
		Load(opts ...FileOption) error
		EqualDict(other Dict, opts ...CompareOption) bool
	}

	// Store is an ordered key/value dictionary bound to one file. The line
	// grammar, value checks and overwrite policy come from its Codec.
	Store[V comparable] struct {
		binding
		codec Codec[V]
		keys  []string
		vals  map[string]V
	}
)

// String returns the ordering name.
func (o Ordering) String() string {
	switch o {
	case OrderInsertion:
		return "insertion"
	case OrderSorted:
		return "sorted"
	case OrderSignificant:
		return "significant"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

// Validate returns an error wrapping ErrInvalidOrdering for unknown values.
func (o Ordering) Validate() error {
	if o < OrderInsertion || o > OrderSignificant {
		return fmt.Errorf("%w: %d", ErrInvalidOrdering, int(o))
	}
	return nil
}

// New creates an empty store bound to dir/filename.
func New[V comparable](dir, filename string, codec Codec[V], ordering Ordering) (*Store[V], error) {
	if err := ordering.Validate(); err != nil {
		return nil, err
	}
	return newStore(dir, filename, codec, ordering), nil
}

func newStore[V comparable](dir, filename string, codec Codec[V], ordering Ordering) *Store[V] {
	return &Store[V]{
		binding: binding{dir: dir, filename: filename, ordering: ordering},
		codec:   codec,
		vals:    make(map[string]V),
	}
}

// Kind returns the codec's grammar name.
func (s *Store[V]) Kind() string { return s.codec.Kind() }

// Len returns the number of keys.
func (s *Store[V]) Len() int { return len(s.keys) }

// Has reports whether key is bound.
func (s *Store[V]) Has(key string) bool {
	_, ok := s.vals[key]
	return ok
}

// Keys returns a copy of the keys in insertion order.
func (s *Store[V]) Keys() []string { return slices.Clone(s.keys) }

// Get returns the value bound to key or a KeyNotFoundError.
func (s *Store[V]) Get(key string) (V, error) {
	val, ok := s.vals[key]
	if !ok {
		return val, &KeyNotFoundError{Key: key}
	}
	return val, nil
}

// Lookup returns the value bound to key and whether it was present.
func (s *Store[V]) Lookup(key string) (V, bool) {
	val, ok := s.vals[key]
	return val, ok
}

// Records returns every pair in insertion order.
func (s *Store[V]) Records() []Record {
	records := make([]Record, 0, len(s.keys))
	for _, k := range s.keys {
		records = append(records, Record{Key: k, Value: s.vals[k]})
	}
	return records
}

// Add binds key to val. It fails if the key already exists.
func (s *Store[V]) Add(key string, val V) error {
	return s.add(key, val, false)
}

// Set binds key to val, replacing an existing value when the codec accepts
// the old/new pair.
func (s *Store[V]) Set(key string, val V) error {
	return s.add(key, val, true)
}

func (s *Store[V]) add(key string, val V, overwrite bool) error {
	if s.readonly {
		return &ReadOnlyError{Key: key}
	}
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.codec.Validate(key, val); err != nil {
		return err
	}

	if old, exists := s.vals[key]; exists {
		if !overwrite {
			return &DuplicateKeyError{Key: key}
		}
		if !s.codec.Compatible(old, val) {
			return &IncompatibleValueError{Key: key, Old: old, New: val}
		}
	} else {
		s.keys = append(s.keys, key)
	}
	s.vals[key] = val
	return nil
}

// Erase removes every record. The readonly flag is left untouched.
func (s *Store[V]) Erase() {
	s.keys = nil
	s.vals = make(map[string]V)
}

// Save writes the store to its bound file (or the overridden location).
func (s *Store[V]) Save(opts ...FileOption) error {
	o := s.resolve(opts)
	keys := s.keys
	if o.sortKeys {
		keys = slices.Clone(keys)
		slices.Sort(keys)
	}

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, s.codec.FormatLine(k, s.vals[k]))
	}
	return writeLines(filepath.Join(o.dir, o.filename), s.codec.Header(), lines)
}

// Load parses the bound file (or the overridden location) and adds every
// record to the store. It does not erase existing records first.
func (s *Store[V]) Load(opts ...FileOption) error {
	o := s.resolve(opts)
	err := readLines(filepath.Join(o.dir, o.filename), func(line string) error {
		key, val, ok, err := s.codec.ParseLine(line)
		if err != nil || !ok {
			return err
		}
		return s.Add(key, val)
	})
	if err != nil {
		return err
	}
	s.rebind(o)
	return nil
}

// Equal compares two stores of the same kind. Values are always compared;
// location and key order only when requested (see CompareOption).
func (s *Store[V]) Equal(other *Store[V], opts ...CompareOption) bool {
	if other == nil {
		return false
	}
	o := s.compare(opts)
	if !s.sameLocation(&other.binding, o) {
		return false
	}
	if o.keys && !slices.Equal(s.keys, other.keys) {
		return false
	}
	return maps.Equal(s.vals, other.vals)
}

// EqualDict implements Dict. Stores of different kinds are never equal.
func (s *Store[V]) EqualDict(other Dict, opts ...CompareOption) bool {
	o, ok := other.(*Store[V])
	if !ok {
		return false
	}
	return s.Equal(o, opts...)
}
