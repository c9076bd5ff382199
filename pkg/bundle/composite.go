// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"fmt"
	"log/slog"

	"cgwdict/internal/signature"
	"cgwdict/pkg/dictfile"
	"cgwdict/pkg/naming"

	"golang.org/x/exp/slices"
)

// Composite holds a main bundle and its entries. Entries are discovered from
// the main summary signature on Load.
type Composite struct {
	submitDir string
	stageDir  string
	layout    naming.Layout
	signer    Signer
	main      *Main
	entries   map[string]*Entry
}

// NewComposite creates an empty main bundle and one empty entry per name.
func NewComposite(submitDir, stageDir string, entryNames []string, opts ...Option) (*Composite, error) {
	c := &Composite{
		submitDir: submitDir,
		stageDir:  stageDir,
		layout:    naming.DefaultLayout(),
		entries:   make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.signer == nil {
		c.signer = signature.Default()
	}

	m, err := NewMain(submitDir, stageDir, c.layout)
	if err != nil {
		return nil, err
	}
	m.SetSigner(c.signer)
	c.main = m
	for _, name := range entryNames {
		if _, err := c.AddEntry(name); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SubmitDir returns the main submission directory.
func (c *Composite) SubmitDir() string { return c.submitDir }

// StageDir returns the main staging directory.
func (c *Composite) StageDir() string { return c.stageDir }

// Layout returns the filename layout.
func (c *Composite) Layout() naming.Layout { return c.layout }

// Main returns the main bundle.
func (c *Composite) Main() *Main { return c.main }

// AddEntry creates an empty entry attached to the main bundle.
func (c *Composite) AddEntry(name string) (*Entry, error) {
	if _, ok := c.entries[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrEntryExists, name)
	}
	e, err := NewEntry(c.main, name)
	if err != nil {
		return nil, err
	}
	e.SetReadonly(c.main.IsReadonly())
	c.entries[name] = e
	return e, nil
}

// Entry returns the named entry or an EntryNotFoundError.
func (c *Composite) Entry(name string) (*Entry, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, &EntryNotFoundError{Name: name}
	}
	return e, nil
}

// EntryNames returns the entry names in sorted order.
func (c *Composite) EntryNames() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Entries returns the entries sorted by name.
func (c *Composite) Entries() []*Entry {
	names := c.EntryNames()
	entries := make([]*Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, c.entries[name])
	}
	return entries
}

// SetReadonly toggles the readonly guard on the main bundle and every entry.
func (c *Composite) SetReadonly(readonly bool) {
	c.main.SetReadonly(readonly)
	for _, e := range c.entries {
		e.SetReadonly(readonly)
	}
}

// Erase empties the main bundle. With destroyOldEntries the entries are
// dropped, otherwise each one is emptied and kept under its name.
func (c *Composite) Erase(destroyOldEntries bool) error {
	if err := c.main.Erase(); err != nil {
		return err
	}
	if destroyOldEntries {
		c.entries = make(map[string]*Entry)
		return nil
	}
	for _, e := range c.entries {
		if err := e.Erase(); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the main bundle and every entry its summary signature lists.
// With destroyOldEntries unset, entries not listed are kept as they are.
func (c *Composite) Load(destroyOldEntries bool) error {
	if err := c.main.Load(); err != nil {
		return err
	}
	if destroyOldEntries {
		c.entries = make(map[string]*Entry)
	}

	for _, tag := range c.main.EntryTags() {
		name, err := c.layout.EntryNameFromTag(tag)
		if err != nil {
			return &OpError{Op: "load", Bundle: c.main.label, Role: RoleSummarySignature, Err: err}
		}
		e, err := NewEntry(c.main, name)
		if err != nil {
			return &OpError{Op: "load", Bundle: c.main.label, Role: RoleSummarySignature, Err: err}
		}
		if err := e.Load(); err != nil {
			return err
		}
		slog.Debug("loaded entry", "entry", name, "submit_dir", e.submitDir, "stage_dir", e.stageDir)
		c.entries[name] = e
	}
	return nil
}

// Save signs and writes every entry, then the main bundle, then the summary
// signature that records the description digest of each of them.
func (c *Composite) Save() error {
	if c.main.IsReadonly() {
		return &OpError{Op: "save", Bundle: c.main.label, Err: dictfile.ErrReadOnly}
	}
	summary := c.main.SummarySignature()

	for _, e := range c.Entries() {
		rec, err := e.sign(c.signer)
		if err != nil {
			return err
		}
		if err := summary.Set(e.Tag(), rec); err != nil {
			return &OpError{Op: "sign", Bundle: e.label, Role: RoleSummarySignature, Err: err}
		}
	}

	return c.main.Save()
}

// Equal compares the main bundles, then the entry name sets, then each
// entry pair.
func (c *Composite) Equal(other *Composite, opts ...EqualOption) bool {
	if other == nil {
		return false
	}
	o := newEqualOptions(opts)
	if o.dirs && (c.submitDir != other.submitDir || c.stageDir != other.stageDir) {
		return false
	}
	if !c.main.Equal(other.main, compareFilenames(o.filenames)) {
		return false
	}

	mine, theirs := c.EntryNames(), other.EntryNames()
	if len(mine) != len(theirs) || !slices.Equal(mine, theirs) {
		return false
	}
	for _, name := range mine {
		if !c.entries[name].Equal(other.entries[name], compareFilenames(o.filenames)) {
			return false
		}
	}
	return true
}
