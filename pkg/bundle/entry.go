// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"cgwdict/pkg/naming"
)

// Entry is a bundle stored in per-entry subdirectories of the main bundle's
// directories. It does not own the Main it was created from.
type Entry struct {
	*Bundle
	name string
	main *Main
}

// NewEntry creates an empty entry bundle attached to main.
func NewEntry(main *Main, name string) (*Entry, error) {
	if err := naming.ValidateEntryName(name); err != nil {
		return nil, err
	}
	l := main.layout
	b, err := newBundle("entry "+name, l.EntrySubmitDir(main.submitDir, name), l.EntryStageDir(main.stageDir, name), l)
	if err != nil {
		return nil, err
	}
	return &Entry{Bundle: b, name: name, main: main}, nil
}

// Name returns the entry name.
func (e *Entry) Name() string { return e.name }

// Tag returns the summary signature key of the entry.
func (e *Entry) Tag() string { return e.layout.EntryTag(e.name) }

// Main returns the main bundle the entry is attached to.
func (e *Entry) Main() *Main { return e.main }

// Erase replaces every store with an empty one.
func (e *Entry) Erase() error {
	return e.build()
}

// Load reads the description recorded for the entry in the main summary
// signature, then every other store. The main bundle must be loaded first.
func (e *Entry) Load() error {
	if err := e.checkWritable("load"); err != nil {
		return err
	}
	rec, err := e.main.SummarySignature().Get(e.Tag())
	if err != nil {
		return &OpError{Op: "load", Bundle: e.label, Role: RoleSummarySignature, Err: err}
	}
	if err := e.Erase(); err != nil {
		return err
	}
	if err := e.loadDescription(rec.Filename); err != nil {
		return err
	}
	return e.loadCommon()
}

// Equal compares two entries store by store. CompareName also requires equal
// names, CompareMain also requires equal main bundles (directories included).
func (e *Entry) Equal(other *Entry, opts ...EqualOption) bool {
	if other == nil {
		return false
	}
	o := newEqualOptions(opts)
	if o.name && e.name != other.name {
		return false
	}
	if o.main && !e.main.Equal(other.main, CompareDirs(), compareFilenames(o.filenames)) {
		return false
	}
	return e.equalStores(other.Bundle, o.filenames)
}
