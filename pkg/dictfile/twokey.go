// SPDX-License-Identifier: MPL-2.0

package dictfile

import (
	"path/filepath"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// ReverseCompatibler is an optional Codec extension consulted when an
	// overwrite rebinds an existing value to a new key. Codecs that do not
	// implement it accept every rebinding.
	ReverseCompatibler interface {
		ReverseCompatible(oldKey, newKey string) bool
	}

	// TwoKeyStore is a dictionary in which values are unique as well as keys,
	// so every value can be looked up in reverse. Forward and reverse maps are
	// updated together or not at all.
	TwoKeyStore struct {
		binding
		codec Codec[string]
		keys  []string
		vals  map[string]string
		keys2 []string
		vals2 map[string]string
	}
)

// NewTwoKey creates an empty two-key store bound to dir/filename.
func NewTwoKey(dir, filename string, codec Codec[string], ordering Ordering) (*TwoKeyStore, error) {
	if err := ordering.Validate(); err != nil {
		return nil, err
	}
	return newTwoKey(dir, filename, codec, ordering), nil
}

func newTwoKey(dir, filename string, codec Codec[string], ordering Ordering) *TwoKeyStore {
	return &TwoKeyStore{
		binding: binding{dir: dir, filename: filename, ordering: ordering},
		codec:   codec,
		vals:    make(map[string]string),
		vals2:   make(map[string]string),
	}
}

// Kind returns the codec's grammar name.
func (s *TwoKeyStore) Kind() string { return s.codec.Kind() }

// Len returns the number of pairs.
func (s *TwoKeyStore) Len() int { return len(s.keys) }

// Has reports whether key is bound.
func (s *TwoKeyStore) Has(key string) bool {
	_, ok := s.vals[key]
	return ok
}

// HasValue reports whether value is bound to some key.
func (s *TwoKeyStore) HasValue(value string) bool {
	_, ok := s.vals2[value]
	return ok
}

// Keys returns a copy of the keys in insertion order.
func (s *TwoKeyStore) Keys() []string { return slices.Clone(s.keys) }

// Values returns a copy of the values in insertion order.
func (s *TwoKeyStore) Values() []string { return slices.Clone(s.keys2) }

// Get returns the value bound to key or a KeyNotFoundError.
func (s *TwoKeyStore) Get(key string) (string, error) {
	val, ok := s.vals[key]
	if !ok {
		return "", &KeyNotFoundError{Key: key}
	}
	return val, nil
}

// LookupByValue returns the key bound to value or a KeyNotFoundError.
func (s *TwoKeyStore) LookupByValue(value string) (string, error) {
	key, ok := s.vals2[value]
	if !ok {
		return "", &KeyNotFoundError{Key: value}
	}
	return key, nil
}

// Records returns every pair in insertion order.
func (s *TwoKeyStore) Records() []Record {
	records := make([]Record, 0, len(s.keys))
	for _, k := range s.keys {
		records = append(records, Record{Key: k, Value: s.vals[k]})
	}
	return records
}

// Add binds key to val. It fails if either the key or the value is already bound.
func (s *TwoKeyStore) Add(key, val string) error {
	return s.add(key, val, false)
}

// Set binds key to val, replacing existing bindings of either side when the
// codec accepts them. Pairings made stale by the rebinding are dropped.
func (s *TwoKeyStore) Set(key, val string) error {
	return s.add(key, val, true)
}

func (s *TwoKeyStore) add(key, val string, overwrite bool) error {
	if s.readonly {
		return &ReadOnlyError{Key: key}
	}
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.codec.Validate(key, val); err != nil {
		return err
	}

	oldVal, keyExists := s.vals[key]
	oldKey, valExists := s.vals2[val]
	if keyExists {
		if !overwrite {
			return &DuplicateKeyError{Key: key}
		}
		if !s.codec.Compatible(oldVal, val) {
			return &IncompatibleValueError{Key: key, Old: oldVal, New: val}
		}
	}
	if valExists {
		if !overwrite {
			return &DuplicateValueError{Value: val}
		}
		if rc, ok := s.codec.(ReverseCompatibler); ok && !rc.ReverseCompatible(oldKey, key) {
			return &IncompatibleValueError{Key: val, Old: oldKey, New: key}
		}
	}

	// All checks passed; mutate both directions.
	if keyExists && oldVal != val {
		delete(s.vals2, oldVal)
		s.keys2 = removeString(s.keys2, oldVal)
	}
	if valExists && oldKey != key {
		delete(s.vals, oldKey)
		s.keys = removeString(s.keys, oldKey)
	}
	if !keyExists {
		s.keys = append(s.keys, key)
	}
	if !valExists {
		s.keys2 = append(s.keys2, val)
	}
	s.vals[key] = val
	s.vals2[val] = key
	return nil
}

func removeString(list []string, item string) []string {
	if i := slices.Index(list, item); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}

// Erase removes every pair. The readonly flag is left untouched.
func (s *TwoKeyStore) Erase() {
	s.keys = nil
	s.vals = make(map[string]string)
	s.keys2 = nil
	s.vals2 = make(map[string]string)
}

// Save writes the store to its bound file (or the overridden location).
func (s *TwoKeyStore) Save(opts ...FileOption) error {
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

// Load parses the bound file (or the overridden location) and adds every pair.
func (s *TwoKeyStore) Load(opts ...FileOption) error {
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

// Equal compares two two-key stores. When key order is compared, the value
// order is compared as well.
func (s *TwoKeyStore) Equal(other *TwoKeyStore, opts ...CompareOption) bool {
	if other == nil {
		return false
	}
	o := s.compare(opts)
	if !s.sameLocation(&other.binding, o) {
		return false
	}
	if o.keys && (!slices.Equal(s.keys, other.keys) || !slices.Equal(s.keys2, other.keys2)) {
		return false
	}
	return maps.Equal(s.vals, other.vals)
}

// EqualDict implements Dict.
func (s *TwoKeyStore) EqualDict(other Dict, opts ...CompareOption) bool {
	o, ok := other.(*TwoKeyStore)
	if !ok {
		return false
	}
	return s.Equal(o, opts...)
}
