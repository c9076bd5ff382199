// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"cgwdict/internal/testutil"
	"cgwdict/internal/testutil/bundletest"
	"cgwdict/pkg/dictfile"
	"cgwdict/pkg/naming"
)

func tempDirs(t *testing.T) (submitDir, stageDir string) {
	t.Helper()
	root := t.TempDir()
	return filepath.Join(root, "submit"), filepath.Join(root, "stage")
}

func TestNewMain_RefreshesDescription(t *testing.T) {
	t.Parallel()

	submitDir, stageDir := tempDirs(t)
	m, err := NewMain(submitDir, stageDir, naming.DefaultLayout())
	if err != nil {
		t.Fatalf("NewMain() error = %v", err)
	}

	want := map[string]string{
		"signature":      "signature.sha1",
		"attrs_file":     "attributes.cfg",
		"consts_file":    "constants.cfg",
		"condor_vars":    "condor_vars.lst",
		"file_list":      "file_list.lst",
		"script_list":    "script_list.lst",
		"subsystem_list": "subsystem_list.lst",
	}
	for tag, fname := range want {
		got, err := m.Description.LookupByValue(tag)
		if err != nil || got != fname {
			t.Errorf("LookupByValue(%s) = %q, %v; want %q", tag, got, err, fname)
		}
	}
	if m.Description.Len() != len(want) {
		t.Errorf("description has %d records, want %d", m.Description.Len(), len(want))
	}

	if m.Params.Dir() != submitDir || m.SummarySignature().Dir() != submitDir {
		t.Error("params and summary signature must live in the submission directory")
	}
	if m.Attrs.Dir() != stageDir || m.Description.Dir() != stageDir {
		t.Error("attrs and description must live in the staging directory")
	}
}

func TestNewMain_InvalidLayout(t *testing.T) {
	t.Parallel()

	l := naming.DefaultLayout()
	l.Consts = l.Attrs
	if _, err := NewMain("s", "t", l); !errors.Is(err, naming.ErrInvalidLayout) {
		t.Errorf("NewMain() error = %v, want ErrInvalidLayout", err)
	}
}

func TestMain_DictView(t *testing.T) {
	t.Parallel()

	m, err := NewMain("s", "t", naming.DefaultLayout())
	if err != nil {
		t.Fatalf("NewMain() error = %v", err)
	}
	for _, role := range m.Roles() {
		d, ok := m.Dict(role)
		if !ok || d == nil {
			t.Errorf("Dict(%s) missing", role)
		}
	}
	if _, ok := m.Dict("bogus"); ok {
		t.Error("Dict(bogus) should not exist")
	}
	if d, _ := m.Dict(RoleSummarySignature); d.Filename() != "signatures.sha1" {
		t.Errorf("summary signature filename = %q", d.Filename())
	}
}

func TestMain_Load_Attributes(t *testing.T) {
	t.Parallel()

	submitDir, stageDir := tempDirs(t)
	bundletest.WriteTree(t, submitDir, stageDir, bundletest.NewSpec(
		bundletest.WithAttr("GLIDEIN_Site", "X"),
		bundletest.WithParam("GLIDEIN_Collector", "pool.example.org"),
	), nil)

	m, err := NewMain(submitDir, stageDir, naming.DefaultLayout())
	if err != nil {
		t.Fatalf("NewMain() error = %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if v, err := m.Attrs.Get("GLIDEIN_Site"); err != nil || v != "X" {
		t.Errorf("Attrs.Get(GLIDEIN_Site) = %q, %v; want X", v, err)
	}
	if v, _ := m.Params.Get("GLIDEIN_Collector"); v != "pool.example.org" {
		t.Errorf("Params.Get() = %q", v)
	}
	if fname, _ := m.Description.LookupByValue("attrs_file"); fname != "attributes.cfg" {
		t.Errorf("description attrs_file = %q, want attributes.cfg", fname)
	}
	if tags := m.EntryTags(); len(tags) != 0 {
		t.Errorf("EntryTags() = %v, want none", tags)
	}
}

func TestMain_SaveEraseLoad(t *testing.T) {
	t.Parallel()

	submitDir, stageDir := tempDirs(t)
	m, err := NewMain(submitDir, stageDir, naming.DefaultLayout())
	if err != nil {
		t.Fatalf("NewMain() error = %v", err)
	}
	if err := m.Attrs.Add("GLIDEIN_Site", "X"); err != nil {
		t.Fatalf("Attrs.Add() error = %v", err)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rec, err := m.SummarySignature().Get(naming.MainTag)
	if err != nil || rec.Filename != "description.cfg" || len(rec.Hash) != 40 {
		t.Fatalf("summary main = %+v, %v", rec, err)
	}

	if err := m.Erase(); err != nil {
		t.Fatalf("Erase() error = %v", err)
	}
	if m.Attrs.Len() != 0 {
		t.Fatalf("Erase() left %d attrs", m.Attrs.Len())
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if v, err := m.Attrs.Get("GLIDEIN_Site"); err != nil || v != "X" {
		t.Errorf("Attrs.Get(GLIDEIN_Site) = %q, %v; want X", v, err)
	}
	if tag, err := m.Description.Get("attributes.cfg"); err != nil || tag != "attrs_file" {
		t.Errorf("Description.Get(attributes.cfg) = %q, %v; want attrs_file", tag, err)
	}

	fresh, err := NewMain(submitDir, stageDir, naming.DefaultLayout())
	if err != nil {
		t.Fatalf("NewMain() error = %v", err)
	}
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load() on a fresh main error = %v", err)
	}
	if !m.Equal(fresh, CompareDirs(), CompareFilenames()) {
		t.Error("fresh main differs from the reloaded one")
	}
}

func TestMain_Load_FollowsDescription(t *testing.T) {
	t.Parallel()

	submitDir, stageDir := tempDirs(t)
	bundletest.WriteTree(t, submitDir, stageDir, bundletest.NewSpec(
		bundletest.WithFilename("attrs_file", "attrs_v2.cfg"),
		bundletest.WithAttr("GLIDEIN_Site", "Y"),
	), nil)

	m, err := NewMain(submitDir, stageDir, naming.DefaultLayout())
	if err != nil {
		t.Fatalf("NewMain() error = %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Attrs.Filename() != "attrs_v2.cfg" {
		t.Errorf("Attrs.Filename() = %q, want attrs_v2.cfg", m.Attrs.Filename())
	}
	if v, _ := m.Attrs.Get("GLIDEIN_Site"); v != "Y" {
		t.Errorf("Attrs.Get() = %q, want Y", v)
	}
}

func TestMain_Load_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(t *testing.T, submitDir, stageDir string)
		wantErr error
		role    Role
	}{
		{
			name: "missing role in description",
			setup: func(t *testing.T, submitDir, stageDir string) {
				bundletest.WriteTree(t, submitDir, stageDir, bundletest.NewSpec(bundletest.WithoutTag("consts_file")), nil)
			},
			wantErr: ErrMissingRole,
			role:    RoleConsts,
		},
		{
			name: "no main record",
			setup: func(t *testing.T, submitDir, stageDir string) {
				bundletest.WriteTree(t, submitDir, stageDir, bundletest.NewSpec(), nil)
				testutil.MustWriteFile(t, filepath.Join(submitDir, "signatures.sha1"), "0  description.cfg  entry_x\n")
			},
			wantErr: dictfile.ErrKeyNotFound,
			role:    RoleSummarySignature,
		},
		{
			name:    "missing summary signature",
			setup:   func(*testing.T, string, string) {},
			wantErr: &dictfile.IOError{},
			role:    RoleSummarySignature,
		},
		{
			name: "listed file missing from stage",
			setup: func(t *testing.T, submitDir, stageDir string) {
				bundletest.WriteTree(t, submitDir, stageDir, bundletest.NewSpec(), nil)
				testutil.MustRemoveAll(t, filepath.Join(stageDir, "file_list.lst"))
			},
			wantErr: fs.ErrNotExist,
			role:    RoleFileList,
		},
		{
			name: "malformed vars line",
			setup: func(t *testing.T, submitDir, stageDir string) {
				bundletest.WriteTree(t, submitDir, stageDir, bundletest.NewSpec(
					bundletest.WithLine("condor_vars", "GLIDEIN_Site S -"),
				), nil)
			},
			wantErr: dictfile.ErrMalformedLine,
			role:    RoleVars,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			submitDir, stageDir := tempDirs(t)
			tt.setup(t, submitDir, stageDir)

			m, err := NewMain(submitDir, stageDir, naming.DefaultLayout())
			if err != nil {
				t.Fatalf("NewMain() error = %v", err)
			}
			err = m.Load()
			if err == nil {
				t.Fatal("Load() should fail")
			}

			if ioErr, ok := tt.wantErr.(*dictfile.IOError); ok {
				if !errors.As(err, &ioErr) {
					t.Errorf("Load() error = %v, want *IOError", err)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}

			var opErr *OpError
			if !errors.As(err, &opErr) || opErr.Role != tt.role {
				t.Errorf("Load() error = %v, want OpError for role %s", err, tt.role)
			}
		})
	}
}

func TestComposite_Load_DiscoversEntries(t *testing.T) {
	t.Parallel()

	submitDir, stageDir := tempDirs(t)
	bundletest.WriteTree(t, submitDir, stageDir,
		bundletest.NewSpec(bundletest.WithAttr("GLIDEIN_Site", "X")),
		map[string]*bundletest.Spec{
			"siteA": bundletest.NewSpec(bundletest.WithAttr("GLIDEIN_Site", "A")),
		})

	c, err := NewComposite(submitDir, stageDir, nil)
	if err != nil {
		t.Fatalf("NewComposite() error = %v", err)
	}
	if err := c.Load(true); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	names := c.EntryNames()
	if len(names) != 1 || names[0] != "siteA" {
		t.Fatalf("EntryNames() = %v, want [siteA]", names)
	}
	e, err := c.Entry("siteA")
	if err != nil {
		t.Fatalf("Entry() error = %v", err)
	}
	if e.StageDir() != filepath.Join(stageDir, "entry_siteA") || e.SubmitDir() != filepath.Join(submitDir, "entry_siteA") {
		t.Errorf("entry dirs = %q, %q", e.SubmitDir(), e.StageDir())
	}
	if v, _ := e.Attrs.Get("GLIDEIN_Site"); v != "A" {
		t.Errorf("entry attr = %q, want A", v)
	}
	if v, _ := c.Main().Attrs.Get("GLIDEIN_Site"); v != "X" {
		t.Errorf("main attr = %q, want X", v)
	}
	if e.Main() != c.Main() {
		t.Error("entry should reference the composite's main bundle")
	}
}

func TestComposite_Load_RejectsForeignTag(t *testing.T) {
	t.Parallel()

	submitDir, stageDir := tempDirs(t)
	bundletest.WriteTree(t, submitDir, stageDir, bundletest.NewSpec(), nil)
	testutil.MustWriteFile(t, filepath.Join(submitDir, "signatures.sha1"),
		"0  description.cfg  main\n0  description.cfg  factory\n")

	c, err := NewComposite(submitDir, stageDir, nil)
	if err != nil {
		t.Fatalf("NewComposite() error = %v", err)
	}
	if err := c.Load(true); !errors.Is(err, naming.ErrNotEntryTag) {
		t.Errorf("Load() error = %v, want ErrNotEntryTag", err)
	}
}

func TestComposite_Load_KeepsUndiscoveredEntries(t *testing.T) {
	t.Parallel()

	submitDir, stageDir := tempDirs(t)
	bundletest.WriteTree(t, submitDir, stageDir, bundletest.NewSpec(),
		map[string]*bundletest.Spec{"siteA": bundletest.NewSpec()})

	c, err := NewComposite(submitDir, stageDir, []string{"local"})
	if err != nil {
		t.Fatalf("NewComposite() error = %v", err)
	}
	local, _ := c.Entry("local")
	if err := local.Attrs.Add("KEEP", "me"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := c.Load(false); err != nil {
		t.Fatalf("Load(false) error = %v", err)
	}
	if names := c.EntryNames(); len(names) != 2 || names[0] != "local" || names[1] != "siteA" {
		t.Errorf("EntryNames() after Load(false) = %v, want [local siteA]", names)
	}
	if local, _ := c.Entry("local"); !local.Attrs.Has("KEEP") {
		t.Error("Load(false) should leave undiscovered entries untouched")
	}

	if err := c.Load(true); err != nil {
		t.Fatalf("Load(true) error = %v", err)
	}
	if names := c.EntryNames(); len(names) != 1 || names[0] != "siteA" {
		t.Errorf("EntryNames() after Load(true) = %v, want [siteA]", names)
	}
}

func populate(t *testing.T, c *Composite) {
	t.Helper()

	m := c.Main()
	mustNoErr(t, m.Attrs.Add("GLIDEIN_Site", "X"))
	mustNoErr(t, m.Consts.Add("GLIDEIN_Version", "2"))
	mustNoErr(t, m.Params.Add("GLIDEIN_Collector", "pool.example.org"))
	mustNoErr(t, m.Vars.Add("GLIDEIN_Site", dictfile.Var{
		Type: dictfile.VarTypeS, Default: "-", CondorName: "GLIDEIN_Site",
		Required: dictfile.FlagNo, Export: dictfile.FlagYes, UserName: "+",
	}))
	mustNoErr(t, m.FileList.Add("setup.sh", dictfile.Meta("regular exec")))
	mustNoErr(t, m.SubsystemList.Add("cdb.tgz", dictfile.Subsystem{ConfigCheck: "USE_CDB", WNSubdir: "cdb", ConfigOut: "cdb.cfg"}))

	for _, e := range c.Entries() {
		mustNoErr(t, e.Attrs.Add("GLIDEIN_Site", e.Name()))
		mustNoErr(t, e.ScriptList.Add("validate.sh", dictfile.FileMeta{}))
	}
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestComposite_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	submitDir, stageDir := tempDirs(t)
	c, err := NewComposite(submitDir, stageDir, []string{"siteB", "siteA"})
	if err != nil {
		t.Fatalf("NewComposite() error = %v", err)
	}
	populate(t, c)
	if err := c.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	summary := c.Main().SummarySignature()
	if keys := summary.Keys(); len(keys) != 3 || keys[2] != naming.MainTag {
		t.Errorf("summary keys = %v, want entries first then main", keys)
	}
	if rec, _ := summary.Get("entry_siteA"); rec.Filename != "description.cfg" || len(rec.Hash) != 40 {
		t.Errorf("summary entry_siteA = %+v", rec)
	}
	if c.Main().Signature.Len() != 6 {
		t.Errorf("main signature has %d records, want 6", c.Main().Signature.Len())
	}

	loaded, err := NewComposite(submitDir, stageDir, nil)
	if err != nil {
		t.Fatalf("NewComposite() error = %v", err)
	}
	if err := loaded.Load(true); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !c.Equal(loaded, CompareDirs(), CompareFilenames()) {
		t.Error("loaded composite differs from the saved one")
	}

	e, _ := loaded.Entry("siteB")
	if m, _ := e.ScriptList.Get("validate.sh"); m.Valid {
		t.Error("absent file metadata should survive the round trip")
	}
}

func TestComposite_Verify(t *testing.T) {
	t.Parallel()

	submitDir, stageDir := tempDirs(t)
	c, err := NewComposite(submitDir, stageDir, []string{"siteA"})
	if err != nil {
		t.Fatalf("NewComposite() error = %v", err)
	}
	populate(t, c)
	if err := c.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	result := c.Verify()
	if !result.Valid || len(result.Issues) != 0 {
		t.Fatalf("Verify() issues = %v", result.Issues)
	}
	if result.Checked != 14 {
		t.Errorf("Verify() checked %d files, want 14", result.Checked)
	}

	testutil.MustWriteFile(t, filepath.Join(stageDir, "attributes.cfg"), "GLIDEIN_Site \tTampered\n")
	result = c.Verify()
	if result.Valid || len(result.Issues) != 1 {
		t.Fatalf("Verify() after tamper issues = %v, want exactly one", result.Issues)
	}
	if got := result.Issues[0]; got.Bundle != naming.MainTag || got.Path != filepath.Join(stageDir, "attributes.cfg") {
		t.Errorf("issue = %+v", got)
	}
}

func TestComposite_Readonly(t *testing.T) {
	t.Parallel()

	submitDir, stageDir := tempDirs(t)
	c, err := NewComposite(submitDir, stageDir, []string{"siteA"})
	if err != nil {
		t.Fatalf("NewComposite() error = %v", err)
	}
	c.SetReadonly(true)

	if err := c.Main().Attrs.Add("k", "v"); !errors.Is(err, dictfile.ErrReadOnly) {
		t.Errorf("main Attrs.Add() error = %v, want ErrReadOnly", err)
	}
	if err := c.Main().SummarySignature().Add("main", dictfile.SummaryHash{Hash: "h", Filename: "f"}); !errors.Is(err, dictfile.ErrReadOnly) {
		t.Errorf("summary Add() error = %v, want ErrReadOnly", err)
	}
	e, _ := c.Entry("siteA")
	if err := e.Vars.Add("k", dictfile.Var{}); !errors.Is(err, dictfile.ErrReadOnly) {
		t.Errorf("entry Vars.Add() error = %v, want ErrReadOnly", err)
	}
	added, err := c.AddEntry("siteB")
	if err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}
	if !added.IsReadonly() {
		t.Error("entries added to a readonly composite should be readonly")
	}
	if err := c.Load(true); !errors.Is(err, dictfile.ErrReadOnly) {
		t.Errorf("Load() error = %v, want ErrReadOnly", err)
	}
	if err := c.Save(); !errors.Is(err, dictfile.ErrReadOnly) {
		t.Errorf("Save() error = %v, want ErrReadOnly", err)
	}

	c.SetReadonly(false)
	if err := e.Attrs.Add("k", "v"); err != nil {
		t.Errorf("Add() after clearing readonly error = %v", err)
	}
}

func TestComposite_Erase(t *testing.T) {
	t.Parallel()

	c, err := NewComposite("submit", "stage", []string{"siteA", "siteB"})
	if err != nil {
		t.Fatalf("NewComposite() error = %v", err)
	}
	populate(t, c)

	if err := c.Erase(false); err != nil {
		t.Fatalf("Erase(false) error = %v", err)
	}
	if names := c.EntryNames(); len(names) != 2 {
		t.Errorf("Erase(false) EntryNames() = %v, want both kept", names)
	}
	if c.Main().Attrs.Len() != 0 {
		t.Error("Erase() should empty the main bundle")
	}
	e, _ := c.Entry("siteA")
	if e.Attrs.Len() != 0 || e.Main() != c.Main() {
		t.Error("Erase(false) should empty surviving entries and keep them attached")
	}
	if e.Description.Len() != 7 {
		t.Errorf("erased description has %d records, want 7", e.Description.Len())
	}

	if err := c.Erase(true); err != nil {
		t.Fatalf("Erase(true) error = %v", err)
	}
	if names := c.EntryNames(); len(names) != 0 {
		t.Errorf("Erase(true) EntryNames() = %v, want none", names)
	}
}

func TestComposite_Entries(t *testing.T) {
	t.Parallel()

	c, err := NewComposite("submit", "stage", []string{"siteB", "siteA"})
	if err != nil {
		t.Fatalf("NewComposite() error = %v", err)
	}
	if names := c.EntryNames(); names[0] != "siteA" || names[1] != "siteB" {
		t.Errorf("EntryNames() = %v, want sorted", names)
	}
	if _, err := c.AddEntry("siteA"); !errors.Is(err, ErrEntryExists) {
		t.Errorf("AddEntry(dup) error = %v, want ErrEntryExists", err)
	}
	if _, err := c.AddEntry("../escape"); !errors.Is(err, naming.ErrInvalidEntryName) {
		t.Errorf("AddEntry(../escape) error = %v, want ErrInvalidEntryName", err)
	}
	_, err = c.Entry("missing")
	var nfErr *EntryNotFoundError
	if !errors.As(err, &nfErr) || nfErr.Name != "missing" || !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Entry(missing) error = %v", err)
	}
	if _, err := NewComposite("s", "t", []string{"a", "a"}); !errors.Is(err, ErrEntryExists) {
		t.Errorf("NewComposite(dup names) error = %v, want ErrEntryExists", err)
	}
}

func TestEntry_Equal(t *testing.T) {
	t.Parallel()

	a, err := NewComposite("submit", "stage", []string{"siteA"})
	if err != nil {
		t.Fatalf("NewComposite() error = %v", err)
	}
	b, err := NewComposite("submit", "stage", []string{"siteA", "siteB"})
	if err != nil {
		t.Fatalf("NewComposite() error = %v", err)
	}
	mustNoErr(t, b.Main().Attrs.Add("GLIDEIN_Site", "different"))

	ea, _ := a.Entry("siteA")
	eb, _ := b.Entry("siteA")
	other, _ := b.Entry("siteB")

	if !ea.Equal(eb) {
		t.Error("entries with equal stores should be equal")
	}
	if ea.Equal(eb, CompareMain()) {
		t.Error("CompareMain should detect different main bundles")
	}
	if !ea.Equal(other) {
		t.Error("names are ignored by default")
	}
	if ea.Equal(other, CompareName()) {
		t.Error("CompareName should detect different names")
	}
	if a.Equal(b) {
		t.Error("composites with different mains should differ")
	}
}

func TestComposite_Equal_EntrySets(t *testing.T) {
	t.Parallel()

	a, _ := NewComposite("submit", "stage", []string{"siteA"})
	b, _ := NewComposite("submit", "stage", []string{"siteB"})
	c, _ := NewComposite("other", "stage", []string{"siteA"})

	if a.Equal(b) {
		t.Error("different entry names should differ")
	}
	if !a.Equal(c) {
		t.Error("directories are ignored by default")
	}
	if a.Equal(c, CompareDirs()) {
		t.Error("CompareDirs should detect different submission directories")
	}
}
