// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"log/slog"

	"cgwdict/internal/signature"
	"cgwdict/pkg/dictfile"
	"cgwdict/pkg/naming"
)

// Main is the top-level bundle. Its summary signature, kept in the submission
// directory, locates the description of the main bundle and of every entry.
type Main struct {
	*Bundle
	summary *dictfile.Store[dictfile.SummaryHash]
	signer  Signer
}

// NewMain creates an empty main bundle rooted at the given directories.
func NewMain(submitDir, stageDir string, layout naming.Layout) (*Main, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	b, err := newBundle(naming.MainTag, submitDir, stageDir, layout)
	if err != nil {
		return nil, err
	}
	m := &Main{Bundle: b, signer: signature.Default()}
	m.buildSummary()
	return m, nil
}

func (m *Main) buildSummary() {
	m.summary = dictfile.NewSummarySHA1(m.submitDir, m.layout.SummarySignature)
	m.summary.SetReadonly(m.readonly)
}

// SummarySignature returns the store used to discover descriptions and entries.
func (m *Main) SummarySignature() *dictfile.Store[dictfile.SummaryHash] {
	return m.summary
}

// Roles returns the common roles followed by the summary signature.
func (m *Main) Roles() []Role {
	return AllRoles()
}

// Dict returns the store bound to role, including the summary signature.
func (m *Main) Dict(role Role) (dictfile.Dict, bool) {
	if role == RoleSummarySignature {
		return m.summary, true
	}
	return m.Bundle.Dict(role)
}

// SetReadonly toggles the readonly guard on every store.
func (m *Main) SetReadonly(readonly bool) {
	m.Bundle.SetReadonly(readonly)
	m.summary.SetReadonly(readonly)
}

// Erase replaces every store with an empty one. Entries built from m stay
// attached to it.
func (m *Main) Erase() error {
	if err := m.build(); err != nil {
		return err
	}
	m.buildSummary()
	return nil
}

// Load reads the summary signature, then the description it points to under
// "main", then every other store. Previous content is discarded.
func (m *Main) Load() error {
	if err := m.checkWritable("load"); err != nil {
		return err
	}
	if err := m.Erase(); err != nil {
		return err
	}

	slog.Debug("load dict", "bundle", m.label, "role", RoleSummarySignature, "path", m.summary.Path())
	if err := m.summary.Load(); err != nil {
		return &OpError{Op: "load", Bundle: m.label, Role: RoleSummarySignature, Err: err}
	}
	rec, err := m.summary.Get(naming.MainTag)
	if err != nil {
		return &OpError{Op: "load", Bundle: m.label, Role: RoleSummarySignature, Err: err}
	}
	if err := m.loadDescription(rec.Filename); err != nil {
		return err
	}
	return m.loadCommon()
}

// SetSigner replaces the digest used by Save.
func (m *Main) SetSigner(signer Signer) {
	m.signer = signer
}

// Save signs and writes every store, records the description digest under
// "main" in the summary signature and writes it.
func (m *Main) Save() error {
	rec, err := m.sign(m.signer)
	if err != nil {
		return err
	}
	if err := m.summary.Set(naming.MainTag, rec); err != nil {
		return &OpError{Op: "sign", Bundle: m.label, Role: RoleSummarySignature, Err: err}
	}
	return m.saveSummary()
}

func (m *Main) saveSummary() error {
	slog.Debug("save dict", "bundle", m.label, "role", RoleSummarySignature, "path", m.summary.Path())
	if err := m.summary.Save(); err != nil {
		return &OpError{Op: "save", Bundle: m.label, Role: RoleSummarySignature, Err: err}
	}
	return nil
}

// EntryTags returns the summary signature keys that name entries.
func (m *Main) EntryTags() []string {
	var tags []string
	for _, k := range m.summary.Keys() {
		if k != naming.MainTag {
			tags = append(tags, k)
		}
	}
	return tags
}

// Equal compares two main bundles store by store.
func (m *Main) Equal(other *Main, opts ...EqualOption) bool {
	if other == nil {
		return false
	}
	o := newEqualOptions(opts)
	if o.dirs && (m.submitDir != other.submitDir || m.stageDir != other.stageDir) {
		return false
	}
	if !m.equalStores(other.Bundle, o.filenames) {
		return false
	}
	var cmp []dictfile.CompareOption
	if o.filenames {
		cmp = append(cmp, dictfile.CompareFilename())
	}
	return m.summary.Equal(other.summary, cmp...)
}
