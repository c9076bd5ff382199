// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"fmt"
	"log/slog"
	"os"

	"cgwdict/pkg/dictfile"
	"cgwdict/pkg/naming"
)

// Bundle is the set of dictionaries shared by the main bundle and every entry.
// Params live in the submission directory, everything else in the staging
// directory. The description maps every indexed role to its filename.
type Bundle struct {
	Attrs         *dictfile.Store[string]
	Description   *dictfile.TwoKeyStore
	Consts        *dictfile.Store[string]
	Params        *dictfile.Store[string]
	Vars          *dictfile.Store[dictfile.Var]
	FileList      *dictfile.Store[dictfile.FileMeta]
	ScriptList    *dictfile.Store[dictfile.FileMeta]
	SubsystemList *dictfile.Store[dictfile.Subsystem]
	Signature     *dictfile.Store[string]

	label     string
	submitDir string
	stageDir  string
	layout    naming.Layout
	readonly  bool
}

// newBundle builds empty stores for dirs and records them in the description.
func newBundle(label, submitDir, stageDir string, layout naming.Layout) (*Bundle, error) {
	b := &Bundle{
		label:     label,
		submitDir: submitDir,
		stageDir:  stageDir,
		layout:    layout,
	}
	if err := b.build(); err != nil {
		return nil, err
	}
	return b, nil
}

// build replaces every store with an empty one and refreshes the description.
func (b *Bundle) build() error {
	l := b.layout
	b.Attrs = dictfile.NewPlain(b.stageDir, l.Attrs)
	b.Description = dictfile.NewDescription(b.stageDir, l.Description)
	b.Consts = dictfile.NewPlain(b.stageDir, l.Consts)
	b.Params = dictfile.NewPlain(b.submitDir, l.Params)
	b.Vars = dictfile.NewVars(b.stageDir, l.Vars)
	b.FileList = dictfile.NewFileList(b.stageDir, l.FileList)
	b.ScriptList = dictfile.NewFileList(b.stageDir, l.ScriptList)
	b.SubsystemList = dictfile.NewSubsystem(b.stageDir, l.SubsystemList)
	b.Signature = dictfile.NewSHA1(b.stageDir, l.Signature)

	if err := b.RefreshDescription(); err != nil {
		return err
	}
	b.applyReadonly()
	return nil
}

// Label returns "main" or "entry <name>".
func (b *Bundle) Label() string { return b.label }

// SubmitDir returns the submission directory.
func (b *Bundle) SubmitDir() string { return b.submitDir }

// StageDir returns the staging directory.
func (b *Bundle) StageDir() string { return b.stageDir }

// Layout returns the filename layout the bundle was built with.
func (b *Bundle) Layout() naming.Layout { return b.layout }

// Roles returns the roles held by the bundle in display order.
func (b *Bundle) Roles() []Role {
	return append([]Role(nil), commonRoles...)
}

// Dict returns the store bound to role.
func (b *Bundle) Dict(role Role) (dictfile.Dict, bool) {
	switch role {
	case RoleAttrs:
		return b.Attrs, true
	case RoleDescription:
		return b.Description, true
	case RoleConsts:
		return b.Consts, true
	case RoleParams:
		return b.Params, true
	case RoleVars:
		return b.Vars, true
	case RoleFileList:
		return b.FileList, true
	case RoleScriptList:
		return b.ScriptList, true
	case RoleSubsystemList:
		return b.SubsystemList, true
	case RoleSignature:
		return b.Signature, true
	default:
		return nil, false
	}
}

// RefreshDescription records the current filename of every indexed role in
// the description, overwriting previous bindings.
func (b *Bundle) RefreshDescription() error {
	for _, role := range indexedRoles {
		d, _ := b.Dict(role)
		if err := b.Description.Set(d.Filename(), role.DescriptionTag()); err != nil {
			return &OpError{Op: "describe", Bundle: b.label, Role: role, Err: err}
		}
	}
	return nil
}

// SetReadonly toggles the readonly guard on every store.
func (b *Bundle) SetReadonly(readonly bool) {
	b.readonly = readonly
	b.applyReadonly()
}

// IsReadonly reports whether the bundle is readonly.
func (b *Bundle) IsReadonly() bool { return b.readonly }

func (b *Bundle) applyReadonly() {
	for _, role := range commonRoles {
		d, _ := b.Dict(role)
		d.SetReadonly(b.readonly)
	}
}

// checkWritable fails before a load discards the current content.
func (b *Bundle) checkWritable(op string) error {
	if b.readonly {
		return &OpError{Op: op, Bundle: b.label, Err: dictfile.ErrReadOnly}
	}
	return nil
}

// loadDescription replaces the description with the content of fname.
func (b *Bundle) loadDescription(fname string) error {
	b.Description.Erase()
	slog.Debug("load dict", "bundle", b.label, "role", RoleDescription, "dir", b.stageDir, "file", fname)
	if err := b.Description.Load(dictfile.WithFilename(fname)); err != nil {
		return &OpError{Op: "load", Bundle: b.label, Role: RoleDescription, Err: err}
	}
	return nil
}

// loadCommon loads params directly and every indexed role from the filename
// its tag resolves to in the description.
func (b *Bundle) loadCommon() error {
	slog.Debug("load dict", "bundle", b.label, "role", RoleParams, "path", b.Params.Path())
	if err := b.Params.Load(); err != nil {
		return &OpError{Op: "load", Bundle: b.label, Role: RoleParams, Err: err}
	}

	for _, role := range indexedRoles {
		tag := role.DescriptionTag()
		fname, err := b.Description.LookupByValue(tag)
		if err != nil {
			return &OpError{Op: "load", Bundle: b.label, Role: role, Err: fmt.Errorf("%w: tag %q", ErrMissingRole, tag)}
		}
		d, _ := b.Dict(role)
		slog.Debug("load dict", "bundle", b.label, "role", role, "dir", d.Dir(), "file", fname)
		if err := d.Load(dictfile.WithFilename(fname)); err != nil {
			return &OpError{Op: "load", Bundle: b.label, Role: role, Err: err}
		}
	}
	return nil
}

// Save writes every store, creating the directories as needed.
func (b *Bundle) Save() error {
	if err := b.mkdirs(); err != nil {
		return err
	}
	for _, role := range commonRoles {
		if err := b.saveRole(role); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bundle) mkdirs() error {
	for _, dir := range []string{b.submitDir, b.stageDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &OpError{Op: "save", Bundle: b.label, Err: err}
		}
	}
	return nil
}

func (b *Bundle) saveRole(role Role) error {
	d, _ := b.Dict(role)
	slog.Debug("save dict", "bundle", b.label, "role", role, "path", d.Path())
	if err := d.Save(); err != nil {
		return &OpError{Op: "save", Bundle: b.label, Role: role, Err: err}
	}
	return nil
}

// sign saves the content stores, records their digests in the signature,
// saves the signature and the description, and returns the summary record
// of the description.
func (b *Bundle) sign(signer Signer) (dictfile.SummaryHash, error) {
	var none dictfile.SummaryHash
	if err := b.mkdirs(); err != nil {
		return none, err
	}
	if err := b.saveRole(RoleParams); err != nil {
		return none, err
	}

	for _, role := range indexedRoles {
		if role == RoleSignature {
			continue
		}
		if err := b.saveRole(role); err != nil {
			return none, err
		}
		d, _ := b.Dict(role)
		digest, err := signer.SumFile(d.Path())
		if err != nil {
			return none, &OpError{Op: "sign", Bundle: b.label, Role: role, Err: err}
		}
		if err := b.Signature.Set(d.Filename(), digest); err != nil {
			return none, &OpError{Op: "sign", Bundle: b.label, Role: role, Err: err}
		}
	}

	if err := b.saveRole(RoleSignature); err != nil {
		return none, err
	}
	if err := b.saveRole(RoleDescription); err != nil {
		return none, err
	}

	digest, err := signer.SumFile(b.Description.Path())
	if err != nil {
		return none, &OpError{Op: "sign", Bundle: b.label, Role: RoleDescription, Err: err}
	}
	return dictfile.SummaryHash{Hash: digest, Filename: b.Description.Filename()}, nil
}

// equalStores compares every common store; directories are never compared.
func (b *Bundle) equalStores(other *Bundle, compareFilenames bool) bool {
	var opts []dictfile.CompareOption
	if compareFilenames {
		opts = append(opts, dictfile.CompareFilename())
	}
	for _, role := range commonRoles {
		mine, _ := b.Dict(role)
		theirs, _ := other.Dict(role)
		if !mine.EqualDict(theirs, opts...) {
			return false
		}
	}
	return true
}
