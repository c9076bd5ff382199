// SPDX-License-Identifier: MPL-2.0

package dictfile

import "path/filepath"

type (
	// fileOptions holds per-call overrides for Save and Load.
	fileOptions struct {
		dir       string
		filename  string
		sortKeys  bool
		sortSet   bool
		keepBound bool
	}

	// FileOption overrides the bound location or ordering for one Save or Load call.
	FileOption func(*fileOptions)

	// compareOptions holds the switches for Equal.
	compareOptions struct {
		dir      bool
		filename bool
		keys     bool
		keysSet  bool
	}

	// CompareOption configures Equal.
	CompareOption func(*compareOptions)
)

// WithDir reads or writes the file in dir instead of the bound directory.
func WithDir(dir string) FileOption {
	return func(o *fileOptions) {
		o.dir = dir
	}
}

// WithFilename reads or writes name instead of the bound filename.
func WithFilename(name string) FileOption {
	return func(o *fileOptions) {
		o.filename = name
	}
}

// WithSortKeys overrides the store's ordering for a single Save.
func WithSortKeys(sortKeys bool) FileOption {
	return func(o *fileOptions) {
		o.sortKeys = sortKeys
		o.sortSet = true
	}
}

// WithoutRebind keeps the store bound to its previous location after a
// successful Load from an overridden directory or filename.
func WithoutRebind() FileOption {
	return func(o *fileOptions) {
		o.keepBound = true
	}
}

// CompareDir makes Equal compare the bound directories.
func CompareDir() CompareOption {
	return func(o *compareOptions) {
		o.dir = true
	}
}

// CompareFilename makes Equal compare the bound filenames.
func CompareFilename() CompareOption {
	return func(o *compareOptions) {
		o.filename = true
	}
}

// CompareKeys forces (or disables) comparison of key order. Without it, key
// order is compared only for OrderSignificant stores.
func CompareKeys(compare bool) CompareOption {
	return func(o *compareOptions) {
		o.keys = compare
		o.keysSet = true
	}
}

// binding is the on-disk location and flags shared by every store type.
type binding struct {
	dir      string
	filename string
	ordering Ordering
	readonly bool
}

// Dir returns the bound directory.
func (b *binding) Dir() string { return b.dir }

// Filename returns the bound filename.
func (b *binding) Filename() string { return b.filename }

// Path returns the bound file path.
func (b *binding) Path() string { return filepath.Join(b.dir, b.filename) }

// Ordering returns the ordering the store was constructed with.
func (b *binding) Ordering() Ordering { return b.ordering }

// SetReadonly toggles the readonly guard. While set, Add and Set fail.
func (b *binding) SetReadonly(readonly bool) { b.readonly = readonly }

// IsReadonly reports whether the readonly guard is set.
func (b *binding) IsReadonly() bool { return b.readonly }

func (b *binding) resolve(opts []FileOption) fileOptions {
	o := fileOptions{
		dir:      b.dir,
		filename: b.filename,
		sortKeys: b.ordering == OrderSorted,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// rebind records the location a successful Load read from.
func (b *binding) rebind(o fileOptions) {
	if o.keepBound {
		return
	}
	b.dir = o.dir
	b.filename = o.filename
}

func (b *binding) compare(opts []CompareOption) compareOptions {
	o := compareOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.keysSet {
		o.keys = b.ordering == OrderSignificant
	}
	return o
}

func (b *binding) sameLocation(other *binding, o compareOptions) bool {
	if o.dir && b.dir != other.dir {
		return false
	}
	if o.filename && b.filename != other.filename {
		return false
	}
	return true
}
